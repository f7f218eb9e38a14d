package api

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/internal/service/ratelimit"
	"WalletScope/internal/usecase"
	xhttp "WalletScope/pkg/http"
	xlogger "WalletScope/pkg/logger"
)

// TraceRequest is the POST /api/trace body.
type TraceRequest struct {
	Address          string  `json:"address" validate:"required,eth_addr"`
	Deep             *bool   `json:"deep,omitempty"`
	TraceOrigin      *bool   `json:"trace_origin,omitempty"`
	CheckOutbound    *bool   `json:"check_outbound,omitempty"`
	IncludePositions *bool   `json:"include_positions,omitempty"`
	MaxSiblings      int     `json:"max_siblings,omitempty" validate:"omitempty,gte=1,lte=100"`
	MaxOriginHops    int     `json:"max_origin_hops,omitempty" validate:"omitempty,gte=1,lte=10"`
	MinTraceAmount   float64 `json:"min_trace_amount,omitempty" validate:"omitempty,gte=0"`
	MinHopAmount     float64 `json:"min_hop_amount,omitempty" validate:"omitempty,gte=0"`
	OutboundMin      float64 `json:"outbound_min,omitempty" validate:"omitempty,gte=0"`
}

// TraceHandler exposes the trace engine over HTTP.
type TraceHandler struct {
	logger    *xlogger.Logger
	tracer    *usecase.Tracer
	archive   repository.TraceArchive
	publisher repository.TracePublisher
	rl        *ratelimit.Limiter
	defaults  models.TraceOptions
}

func NewTraceHandler(logger *xlogger.Logger, tracer *usecase.Tracer, archive repository.TraceArchive, publisher repository.TracePublisher) *TraceHandler {
	return &TraceHandler{
		logger:    logger,
		tracer:    tracer,
		archive:   archive,
		publisher: publisher,
		rl:        ratelimit.New(),
		defaults:  usecase.DefaultOptions(),
	}
}

// SetDefaultOptions overrides the server-side trace defaults. Per-request
// fields still win over these.
func (h *TraceHandler) SetDefaultOptions(opts models.TraceOptions) {
	h.defaults = opts
}

func (h *TraceHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/trace", h.Trace)
	g.GET("/health", h.Health)
}

// Trace runs a full investigation for one address. Traces fan out into many
// upstream calls, so requests are rate limited per client.
func (h *TraceHandler) Trace(c echo.Context) error {
	req := &TraceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":trace", 3, 0.5) {
		h.logger.Warn("trace rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many trace requests", 429))
	}

	result, err := h.tracer.Trace(c.Request().Context(), req.Address, req.options(h.defaults))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAddress) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
		h.logger.Error("trace failed",
			xlogger.String("address", req.Address), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	h.persist(result)
	return xhttp.SuccessResponse(c, result)
}

// Health reports archive connectivity alongside liveness.
func (h *TraceHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.archive != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.archive.Health(ctx); err != nil {
			status["archive"] = "down"
		} else {
			status["archive"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}

// persist archives and publishes a finished trace. Both are best-effort:
// the caller already has the result.
func (h *TraceHandler) persist(result *models.TraceResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if h.archive != nil {
		if err := h.archive.Store(ctx, result); err != nil {
			h.logger.Warn("trace archive store failed",
				xlogger.String("address", result.Address), xlogger.Error(err))
		}
	}
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, result); err != nil {
			h.logger.Warn("trace publish failed",
				xlogger.String("address", result.Address), xlogger.Error(err))
		}
	}
}

func (r *TraceRequest) options(base models.TraceOptions) models.TraceOptions {
	opts := base
	if r.Deep != nil {
		opts.Deep = *r.Deep
	}
	if r.TraceOrigin != nil {
		opts.TraceOrigin = *r.TraceOrigin
	}
	if r.CheckOutbound != nil {
		opts.CheckOutbound = *r.CheckOutbound
	}
	if r.IncludePositions != nil {
		opts.IncludePositions = *r.IncludePositions
	}
	if r.MaxSiblings > 0 {
		opts.MaxSiblings = r.MaxSiblings
	}
	if r.MaxOriginHops > 0 {
		opts.MaxOriginHops = r.MaxOriginHops
	}
	if r.MinTraceAmount > 0 {
		opts.MinTraceAmount = r.MinTraceAmount
	}
	if r.MinHopAmount > 0 {
		opts.MinHopAmount = r.MinHopAmount
	}
	if r.OutboundMin > 0 {
		opts.OutboundMin = r.OutboundMin
	}
	return opts
}
