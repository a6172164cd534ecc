package payment_callback

import (
	"errors"
	"net/http"

	"github.com/m04kA/IH-CoordinationService/internal/api/handlers"
	"github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
)

const (
	msgMissingOrderID = "merchantOrderId query parameter is required"
	msgPollNotFound   = "no status poll is registered for this order"
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

// Handle GET /api/v1/payments/callback?merchantOrderId=...&paymentStatus=...&reservationNumber=...
//
// Шлюз сообщает статус только как подсказку: записью руководит опрос
// бэкенда, колбэк лишь форсирует внеочередное обновление.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	merchantOrderID := query.Get("merchantOrderId")
	gatewayStatus := query.Get("paymentStatus")
	reservationNumber := query.Get("reservationNumber")

	if merchantOrderID == "" {
		h.logger.Warn("GET /payments/callback - Missing merchantOrderId")
		handlers.RespondBadRequest(w, msgMissingOrderID)
		return
	}

	poll, err := h.polls.Get(merchantOrderID)
	if err != nil {
		switch {
		case errors.Is(err, poll_status.ErrPollNotFound):
			h.logger.Warn("GET /payments/callback - Poll not found: merchant_order_id=%s", merchantOrderID)
			handlers.RespondNotFound(w, msgPollNotFound)

		default:
			h.logger.Error("GET /payments/callback - Failed to resolve poll: merchant_order_id=%s, error=%v",
				merchantOrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	poll.Refresh()

	h.logger.Info("GET /payments/callback - Refresh triggered: merchant_order_id=%s, gateway_status=%s",
		merchantOrderID, gatewayStatus)
	handlers.RespondJSON(w, http.StatusOK, &CallbackResponse{
		MerchantOrderID:   merchantOrderID,
		GatewayStatus:     gatewayStatus,
		ReservationNumber: reservationNumber,
		Poll:              poll.View(),
	})
}
