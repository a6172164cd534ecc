package get_poll_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/IH-CoordinationService/internal/api/handlers"
	"github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
)

const (
	msgMissingPollID = "poll id is required"
	msgPollNotFound  = "status poll not found"
)

type Handler struct {
	polls  StatusPolls
	logger Logger
}

func NewHandler(polls StatusPolls, logger Logger) *Handler {
	return &Handler{
		polls:  polls,
		logger: logger,
	}
}

// Handle GET /api/v1/status-polls/{pollId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pollID := vars["pollId"]
	if pollID == "" {
		h.logger.Warn("GET /status-polls/{id} - Missing poll ID")
		handlers.RespondBadRequest(w, msgMissingPollID)
		return
	}

	poll, err := h.polls.Get(pollID)
	if err != nil {
		switch {
		case errors.Is(err, poll_status.ErrPollNotFound):
			h.logger.Warn("GET /status-polls/{id} - Poll not found: poll_id=%s", pollID)
			handlers.RespondNotFound(w, msgPollNotFound)

		default:
			h.logger.Error("GET /status-polls/{id} - Failed to resolve poll: poll_id=%s, error=%v", pollID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, poll.View())
}
