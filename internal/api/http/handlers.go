package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProgramFactory/internal/api/middleware"
	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
	"github.com/GriffinCanCode/ProgramFactory/internal/domain/dispatch"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProgramFactory/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ProgramFactory/internal/shared/types"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Factory is the invocation surface of the dispatch actor
type Factory interface {
	Init(ctx context.Context, init types.InitConfigFactory) error
	Handle(ctx context.Context, sender types.ActorAddress, action types.FactoryAction) (types.Result, error)
	Query(ctx context.Context, q types.Query) (types.QueryReply, error)
}

var _ Factory = (*dispatch.Actor)(nil)

// Handlers contains all HTTP handlers
type Handlers struct {
	factory Factory
	metrics *monitoring.Metrics
	logger  *zap.Logger
	started time.Time
}

// NewHandlers creates a new handler set. Metrics may be nil.
func NewHandlers(factory Factory, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		factory: factory,
		metrics: metrics,
		logger:  logger.Named(logging.ComponentHTTP),
		started: time.Now(),
	}
}

// Register mounts the factory routes
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/meta", h.Meta)
	r.POST("/init", h.Init)
	r.POST("/command", middleware.Sender(), h.Command)
	r.POST("/query", h.Query)
	r.GET("/state/:query", h.State)
}

// Health reports liveness and counters
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "program-factory",
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}
	if h.metrics != nil {
		body["stats"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Meta describes the init, handle and state message types
func (h *Handlers) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, types.Metadata)
}

// Init applies the one-time initialization message
func (h *Handlers) Init(c *gin.Context) {
	body, ok := h.body(c)
	if !ok {
		return
	}
	init, err := codec.DecodeInit(body)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.factory.Init(c.Request.Context(), init); err != nil {
		h.harnessError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "initialized"})
}

// Command runs one FactoryAction on behalf of the X-Actor-Id sender
func (h *Handlers) Command(c *gin.Context) {
	sender, ok := middleware.GetSender(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing sender"})
		return
	}
	body, ok := h.body(c)
	if !ok {
		return
	}
	action, err := codec.DecodeAction(body)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.factory.Handle(c.Request.Context(), sender, action)
	if err != nil {
		h.harnessError(c, err)
		return
	}
	reply, err := codec.EncodeResult(result)
	if err != nil {
		h.logger.Error("Failed to encode result", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, reply)
}

// Query exports the state slice named by the body
func (h *Handlers) Query(c *gin.Context) {
	body, ok := h.body(c)
	if !ok {
		return
	}
	q, err := codec.DecodeQuery(body)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	h.serveQuery(c, q)
}

// State exports the state slice named in the path
func (h *Handlers) State(c *gin.Context) {
	q, err := types.ParseQuery(c.Param("query"))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	h.serveQuery(c, q)
}

func (h *Handlers) serveQuery(c *gin.Context, q types.Query) {
	reply, err := h.factory.Query(c.Request.Context(), q)
	if err != nil {
		h.harnessError(c, err)
		return
	}
	data, err := codec.EncodeQueryReply(reply)
	if err != nil {
		h.logger.Error("Failed to encode query reply", zap.String("query", q.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, data)
}

func (h *Handlers) body(c *gin.Context) ([]byte, bool) {
	data, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return nil, false
		}
		h.badRequest(c, err)
		return nil, false
	}
	return data, true
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.Debug("Rejected request",
		zap.String("path", c.FullPath()),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handlers) harnessError(c *gin.Context, err error) {
	if errors.Is(err, dispatch.ErrOutcomeUnknown) {
		c.JSON(statusFor(err), gin.H{
			"error":   err.Error(),
			"outcome": "unknown",
			"hint":    "the command may have been applied; query Number before retrying",
		})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrNotInitialized), errors.Is(err, dispatch.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, dispatch.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
