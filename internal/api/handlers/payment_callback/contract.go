package payment_callback

import (
	"github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
)

type StatusPolls interface {
	Get(id string) (*poll_status.Poll, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
