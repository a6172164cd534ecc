package start_poll

import (
	"context"

	"github.com/m04kA/IH-CoordinationService/internal/usecase/poll_status"
)

type StatusPolls interface {
	Start(ctx context.Context, req *poll_status.Request) (*poll_status.Poll, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
