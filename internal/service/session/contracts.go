package session

import (
	"context"
	"time"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// AccountsClient интерфейс клиента аккаунтов Insta Health API
type AccountsClient interface {
	Login(ctx context.Context, email, password string) (*healthapi.AccountResponse, error)
	Refresh(ctx context.Context) (*healthapi.AccountResponse, error)
	ResendConfirmation(ctx context.Context, email string) error
	SetToken(token string)
	ClearToken()
}

// SessionRepository интерфейс durable-хранилища сессий
type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, profileID string) (*domain.Session, error)
	Delete(ctx context.Context, profileID string) error
	MarkConfirmationSent(ctx context.Context, email string) error
	ConfirmationSentWithin(ctx context.Context, email string, within time.Duration) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
