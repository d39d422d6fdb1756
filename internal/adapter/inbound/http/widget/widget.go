// Package widget wires gridify's query applier onto a gorm-backed
// gridify.Query[model.Widget], the way the teacher's order handler wires a
// domain service onto a gin route group.
package widget

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/uniedit/gridify"
	"github.com/uniedit/gridify/adapter/countcache"
	"github.com/uniedit/gridify/adapter/gormquery"
	"github.com/uniedit/gridify/internal/model"
	apperrors "github.com/uniedit/gridify/internal/shared/errors"
	"github.com/uniedit/gridify/internal/shared/metrics"
	"github.com/uniedit/gridify/internal/shared/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the /widgets endpoints.
type Handler struct {
	db      *gorm.DB
	mapper  *gridify.FieldMapper[model.Widget]
	applier *gridify.Applier[model.Widget]
	logger  *zap.Logger
}

// options accumulates what New's variadic Option values configure before
// the Handler (and the Applier it builds) are constructed.
type options struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Handler constructed by New.
type Option func(*options)

// WithLogger attaches a *zap.Logger the handler's applier and query
// adapter report diagnostics to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics attaches a *metrics.Metrics the handler's applier reports
// compile/query outcomes to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New builds a Handler. cache is optional; a nil cache disables the
// pre-paging count cache and every call pays for one Count query.
func New(db *gorm.DB, cache *countcache.Cache, opts ...Option) *Handler {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	mapper := gridify.NewFieldMapper[model.Widget](false)
	gridify.GenerateMappings[model.Widget](mapper)

	applierOpts := []gridify.ApplierOption[model.Widget]{gridify.WithLogger[model.Widget](o.logger)}
	if cache != nil {
		applierOpts = append(applierOpts, gridify.WithCountCache[model.Widget](cache))
	}
	if o.metrics != nil {
		applierOpts = append(applierOpts, gridify.WithMetrics[model.Widget](o.metrics))
	}

	return &Handler{
		db:      db,
		mapper:  mapper,
		logger:  o.logger,
		applier: gridify.NewApplier[model.Widget](applierOpts...),
	}
}

// RegisterRoutes mounts the handler's routes under r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	widgets := r.Group("/widgets")
	{
		widgets.GET("", h.List)
		widgets.GET("/:id", h.Get)
	}
}

// List handles GET /widgets?filter=...&sortBy=...&isSortAsc=...&page=...&pageSize=....
func (h *Handler) List(c *gin.Context) {
	gq := gridify.NewGridifyQuery()
	if err := c.ShouldBindQuery(gq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	source := gormquery.New[model.Widget](
		h.db.WithContext(c.Request.Context()).Model(&model.Widget{}),
		gormquery.WithLogger(h.logger),
	)

	paging, err := h.applier.GridifyAsync(c.Request.Context(), source, gq, h.mapper)
	if err != nil {
		response.AppErrorResponse(c, apperrors.FromGridify(err))
		return
	}

	c.JSON(http.StatusOK, paging)
}

// Get handles GET /widgets/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid widget id")
		return
	}

	var w model.Widget
	if err := h.db.WithContext(c.Request.Context()).First(&w, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			response.NotFound(c, "widget not found")
			return
		}
		response.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, w)
}
