package start_poll

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/IH-CoordinationService/internal/api/handlers"
	"github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
)

const (
	msgInvalidBody    = "invalid request body"
	msgInvalidInput   = "kind must be \"order\" or \"reservation\" and id is required"
	msgAlreadyPolling = "a status poll for this id is already running"
)

type Handler struct {
	polls StatusPolls
	// pollCtx живёт до остановки сервера: опрос не должен умирать
	// вместе с контекстом HTTP запроса, который его запустил
	pollCtx context.Context
	logger  Logger
}

func NewHandler(polls StatusPolls, pollCtx context.Context, logger Logger) *Handler {
	return &Handler{
		polls:   polls,
		pollCtx: pollCtx,
		logger:  logger,
	}
}

// Handle POST /api/v1/status-polls
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartPollRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /status-polls - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	poll, err := h.polls.Start(h.pollCtx, &poll_status.Request{
		Kind: poll_status.IDKind(req.Kind),
		ID:   req.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, poll_status.ErrInvalidInput):
			h.logger.Warn("POST /status-polls - Invalid input: kind=%s, id=%s", req.Kind, req.ID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, poll_status.ErrAlreadyPolling):
			h.logger.Warn("POST /status-polls - Already polling: id=%s", req.ID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyPolling)

		default:
			h.logger.Error("POST /status-polls - Failed to start poll: id=%s, error=%v", req.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /status-polls - Poll started: kind=%s, id=%s", req.Kind, req.ID)
	handlers.RespondJSON(w, http.StatusCreated, poll.View())
}
