package gridify

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayouts are tried in order when parsing an RHS literal against a
// date/time field; ISO-8601 allows several levels of precision and an
// optional time component.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimeLiteral(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parserFor returns the RHS-literal decoder for a mapping entry's kind. A
// decoder reporting ok=false signals a value that failed to parse; the
// predicate compiler turns that into the value-collapse behaviour rather
// than a compile error.
func parserFor(k fieldKind) func(string) (any, bool) {
	switch k {
	case kindString:
		return func(s string) (any, bool) { return s, true }
	case kindBool:
		return func(s string) (any, bool) {
			switch strings.ToLower(s) {
			case "true":
				return true, true
			case "false":
				return false, true
			default:
				return nil, false
			}
		}
	case kindNumeric:
		// float64 loses precision above 2^53; fine for demo-scale integer
		// fields, but a large int64 id field would need its own kind.
		return func(s string) (any, bool) {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, false
			}
			return f, true
		}
	case kindUUID:
		return func(s string) (any, bool) {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, false
			}
			return id, true
		}
	case kindTime:
		return func(s string) (any, bool) {
			t, ok := parseTimeLiteral(s)
			if !ok {
				return nil, false
			}
			return t, true
		}
	case kindStringSlice:
		// The RHS is the needle for a membership test, not a collection
		// literal; it is carried verbatim as a string.
		return func(s string) (any, bool) { return s, true }
	default:
		return func(string) (any, bool) { return nil, false }
	}
}

// equalFor returns the Eq/NotEq comparator for kind. a is the (possibly
// normalised) boxed accessor result; b is the parser's boxed result.
func equalFor(k fieldKind) func(a, b any) bool {
	switch k {
	case kindString:
		return func(a, b any) bool {
			as, aok := a.(string)
			bs, bok := b.(string)
			return aok && bok && as == bs
		}
	case kindBool:
		return func(a, b any) bool {
			ab, aok := a.(bool)
			bb, bok := b.(bool)
			return aok && bok && ab == bb
		}
	case kindNumeric:
		return func(a, b any) bool {
			af, aok := toFloat64(a)
			bf, bok := toFloat64(b)
			return aok && bok && af == bf
		}
	case kindUUID:
		return func(a, b any) bool {
			au, aok := a.(uuid.UUID)
			bu, bok := b.(uuid.UUID)
			return aok && bok && au == bu
		}
	case kindTime:
		return func(a, b any) bool {
			at, aok := a.(time.Time)
			bt, bok := b.(time.Time)
			return aok && bok && at.Equal(bt)
		}
	default:
		return func(a, b any) bool { return false }
	}
}

// compareFor returns the ordered comparator for kind, valid only when
// kind.orderable(). Result is negative, zero, or positive as a < b, a == b,
// a > b.
func compareFor(k fieldKind) func(a, b any) int {
	switch k {
	case kindNumeric:
		return func(a, b any) int {
			af, _ := toFloat64(a)
			bf, _ := toFloat64(b)
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	case kindString:
		return func(a, b any) int {
			as, _ := a.(string)
			bs, _ := b.(string)
			return strings.Compare(as, bs)
		}
	case kindUUID:
		return func(a, b any) int {
			au, _ := a.(uuid.UUID)
			bu, _ := b.(uuid.UUID)
			return strings.Compare(au.String(), bu.String())
		}
	case kindTime:
		return func(a, b any) int {
			at, _ := a.(time.Time)
			bt, _ := b.(time.Time)
			return at.Compare(bt)
		}
	default:
		return func(a, b any) int { return 0 }
	}
}

// stringOfFor returns the string-view accessor used by Contains, StartsWith
// and EndsWith against string-like kinds.
func stringOfFor(k fieldKind) func(any) (string, bool) {
	if k != kindString {
		return func(any) (string, bool) { return "", false }
	}
	return func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	}
}

// memberFor returns the collection-membership test used by Contains and
// NotContains against membership-like kinds (currently []string).
func memberFor(k fieldKind) func(collection any, needle string) bool {
	if k != kindStringSlice {
		return func(any, string) bool { return false }
	}
	return func(collection any, needle string) bool {
		items, ok := collection.([]string)
		if !ok {
			return false
		}
		for _, item := range items {
			if item == needle {
				return true
			}
		}
		return false
	}
}
