package poll_status

import (
	"context"

	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// StatusClient интерфейс статусных эндпоинтов Insta Health API
type StatusClient interface {
	GetOrderStatus(ctx context.Context, merchantOrderID string) (*healthapi.StatusResponse, error)
	GetReservationStatus(ctx context.Context, reservationNumber string) (*healthapi.StatusResponse, error)
}

// Metrics интерфейс сбора метрик поллеров. Может быть nil.
type Metrics interface {
	PollStarted()
	PollStopped()
	ObservePollFetch(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
