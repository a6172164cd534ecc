package health

import (
	"context"
	"net/http"

	"github.com/m04kA/IH-CoordinationService/internal/api/handlers"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Error(format string, v ...interface{})
}

// HealthResponse ответ health-чека
type HealthResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	db     Pinger
	logger Logger
}

func NewHandler(db Pinger, logger Logger) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
	}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("GET /health - Database ping failed: %v", err)
		handlers.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
