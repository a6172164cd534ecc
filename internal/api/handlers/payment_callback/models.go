package payment_callback

import (
	"github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
)

// CallbackResponse ответ на редирект платёжного шлюза: параметры,
// которые сообщил шлюз, и актуальная запись статуса со стороны бэкенда
type CallbackResponse struct {
	MerchantOrderID   string                  `json:"merchantOrderId"`
	GatewayStatus     string                  `json:"gatewayStatus,omitempty"`
	ReservationNumber string                  `json:"reservationNumber,omitempty"`
	Poll              *poll_status.StatusView `json:"poll"`
}
