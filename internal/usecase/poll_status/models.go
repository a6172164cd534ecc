package poll_status

import (
	"time"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
)

// IDKind тип опрашиваемого идентификатора
type IDKind string

const (
	// KindOrder опрос по merchantOrderId (/Orders)
	KindOrder IDKind = "order"
	// KindReservation опрос по номеру резервации
	KindReservation IDKind = "reservation"
)

// Request запрос на запуск опроса статуса
type Request struct {
	Kind IDKind
	ID   string
}

// StatusView снимок состояния опроса для вызывающих
type StatusView struct {
	ID                string                `json:"id"`
	MerchantOrderID   string                `json:"merchantOrderId,omitempty"`
	ReservationNumber string                `json:"reservationNumber,omitempty"`
	PaymentStatus     string                `json:"paymentStatus,omitempty"`
	Amount            float64               `json:"amount,omitempty"`
	PaymentURL        string                `json:"paymentUrl,omitempty"`
	FetchedAt         *time.Time            `json:"fetchedAt,omitempty"`
	Terminal          bool                  `json:"terminal"`
	RecoveryAction    domain.RecoveryAction `json:"recoveryAction"`
}

// FromDomainRecord собирает снимок из записи статуса
func FromDomainRecord(id string, record *domain.StatusRecord, recovery domain.RecoveryAction) *StatusView {
	view := &StatusView{
		ID:             id,
		RecoveryAction: recovery,
	}
	if record != nil {
		view.MerchantOrderID = record.MerchantOrderID
		view.ReservationNumber = record.ReservationNumber
		view.PaymentStatus = string(record.PaymentStatus)
		view.Amount = record.Amount
		view.PaymentURL = record.PaymentURL
		fetchedAt := record.FetchedAt
		view.FetchedAt = &fetchedAt
		view.Terminal = record.PaymentStatus.IsTerminal()
	}
	return view
}
