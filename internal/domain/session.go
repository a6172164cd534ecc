package domain

import "time"

// StorageTier уровень хранения сессии
type StorageTier string

const (
	// TierScoped хранилище на время жизни процесса
	TierScoped StorageTier = "scoped"
	// TierDurable постоянное хранилище (PostgreSQL)
	TierDurable StorageTier = "durable"
)

// User идентичность пользователя, полученная от бекенда при входе
type User struct {
	ID       string
	Email    string
	FullName string
	Mobile   string
}

// Session сессия пользователя.
// Токен и пользователь дублируются в два уровня хранения:
// scoped-уровень всегда, durable-уровень только при RememberMe.
type Session struct {
	ProfileID    string // ключ сессии в durable-хранилище
	Token        string
	RefreshToken string
	User         *User
	RememberMe   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAuthenticated возвращает true, если есть токен или пользователь
func (s *Session) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	return s.Token != "" || s.User != nil
}
