package gridify

import "sync/atomic"

// defaultPageSize backs DefaultPageSize. It exists for compatibility with
// callers that never set PageSize explicitly; new code should prefer
// passing PageSize on GridifyQuery over relying on this mutable global.
var defaultPageSize atomic.Int64

func init() {
	defaultPageSize.Store(20)
}

// DefaultPageSize returns the process-wide default page size used when a
// GridifyQuery specifies no positive PageSize.
func DefaultPageSize() int {
	return int(defaultPageSize.Load())
}

// SetDefaultPageSize overrides the process-wide default page size.
//
// Deprecated: mutable global state is not observed atomically by
// in-flight operations. Pass PageSize explicitly on GridifyQuery instead.
func SetDefaultPageSize(n int) {
	if n > 0 {
		defaultPageSize.Store(int64(n))
	}
}

// maxPageSize backs MaxPageSize. Zero means unbounded.
var maxPageSize atomic.Int64

// MaxPageSize returns the process-wide upper bound a requested PageSize is
// clamped to. Zero means unbounded.
func MaxPageSize() int {
	return int(maxPageSize.Load())
}

// SetMaxPageSize overrides the process-wide page size ceiling. n <= 0 is
// ignored and leaves the current ceiling (unbounded until first set) as is.
func SetMaxPageSize(n int) {
	if n > 0 {
		maxPageSize.Store(int64(n))
	}
}

// NewGridifyQuery returns a GridifyQuery pre-populated with defaults,
// suitable for passing to gin's ShouldBindQuery: form binding leaves a
// field untouched when its query parameter is absent, so IsSortAsc's true
// default would otherwise be lost to the bool zero value.
func NewGridifyQuery() *GridifyQuery {
	return &GridifyQuery{Page: 1, PageSize: DefaultPageSize(), IsSortAsc: true}
}

// GridifyQuery is the wire-level input: a filter string, a sort field and
// direction, and a page window. A nil *GridifyQuery is equivalent to all
// fields at their defaults.
type GridifyQuery struct {
	Page      int    `form:"page" json:"page"`
	PageSize  int    `form:"pageSize" json:"pageSize"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	IsSortAsc bool   `form:"isSortAsc" json:"isSortAsc"`
	Filter    string `form:"filter" json:"filter"`
}

// effectivePageSize substitutes DefaultPageSize for a non-positive or
// absent PageSize, then clamps the result to MaxPageSize if one is set.
func (gq *GridifyQuery) effectivePageSize() int {
	size := DefaultPageSize()
	if gq != nil && gq.PageSize > 0 {
		size = gq.PageSize
	}
	if max := MaxPageSize(); max > 0 && size > max {
		size = max
	}
	return size
}

func (gq *GridifyQuery) effectivePage() int {
	if gq == nil || gq.Page < 1 {
		return 1
	}
	return gq.Page
}

func (gq *GridifyQuery) filter() string {
	if gq == nil {
		return ""
	}
	return gq.Filter
}

func (gq *GridifyQuery) sortBy() string {
	if gq == nil {
		return ""
	}
	return gq.SortBy
}

func (gq *GridifyQuery) isSortAsc() bool {
	if gq == nil {
		return true
	}
	return gq.IsSortAsc
}

// Paging is the output envelope: the page window materialised from a
// filtered, ordered query source, plus the total item count of the
// filtered source before paging was applied.
type Paging[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
}
