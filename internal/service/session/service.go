package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	sessionRepo "github.com/m04kA/IH-CoordinationService/internal/infra/storage/session"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
	"github.com/m04kA/IH-CoordinationService/internal/service/session/models"
)

// confirmationThrottle минимальный интервал между повторными отправками
// письма подтверждения на один email
const confirmationThrottle = 10 * time.Minute

// Service хранилище сессии пользователя.
// Сессия дублируется в два уровня: scoped (память процесса, всегда)
// и durable (PostgreSQL, только при rememberMe). Аутентификационное
// состояние гейтит мутирующие операции остальных сервисов; об изменениях
// подписчики уведомляются синхронно.
type Service struct {
	repo      SessionRepository
	client    AccountsClient
	profileID string
	logger    Logger

	mu          sync.RWMutex
	current     *domain.Session
	subscribers []func(authenticated bool)
}

// NewService создает новый экземпляр сервиса сессий.
// profileID - ключ durable-сессии этого экземпляра фронтенда.
func NewService(repo SessionRepository, client AccountsClient, profileID string, logger Logger) *Service {
	return &Service{
		repo:      repo,
		client:    client,
		profileID: profileID,
		logger:    logger,
	}
}

// Restore поднимает durable-сессию при старте процесса (rememberMe).
// Отсутствие сохраненной сессии ошибкой не считается.
func (s *Service) Restore(ctx context.Context) error {
	stored, err := s.repo.Get(ctx, s.profileID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil
		}
		s.logger.Error("Restore: failed to load durable session: %v", err)
		return fmt.Errorf("%w: Restore - repository error: %v", ErrInternal, err)
	}

	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()

	s.client.SetToken(stored.Token)
	s.logger.Info("Restore: durable session restored for profile=%s", s.profileID)
	s.notify(true)
	return nil
}

// Login выполняет вход и сохраняет сессию в оба уровня хранения
// (durable - только при rememberMe). Устанавливает токен в API клиент.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	s.logger.Info("Login: email=%s rememberMe=%v", req.Email, req.RememberMe)

	account, err := s.client.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, healthapi.ErrInvalidCredentials):
			s.logger.Warn("Login: invalid credentials for email=%s", req.Email)
			return nil, ErrInvalidCredentials
		case errors.Is(err, healthapi.ErrEmailNotConfirmed):
			s.logger.Warn("Login: email not confirmed for email=%s", req.Email)
			return nil, ErrEmailNotConfirmed
		default:
			s.logger.Error("Login: request failed for email=%s: %v", req.Email, err)
			return nil, fmt.Errorf("%w: Login - client error: %v", ErrInternal, err)
		}
	}

	session := &domain.Session{
		ProfileID:    s.profileID,
		Token:        account.AccessToken,
		RefreshToken: account.RefreshToken,
		RememberMe:   req.RememberMe,
	}
	if account.User != nil {
		session.User = account.User.ToDomain()
	}

	s.persist(ctx, session)

	s.logger.Info("Login: authenticated email=%s", req.Email)
	return models.FromAccountResponse(account), nil
}

// Logout сбрасывает оба уровня хранения и состояние в памяти.
// Никогда не возвращает ошибку: сбой удаления durable-сессии
// только логируется.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.current.IsAuthenticated()
	s.current = nil
	s.mu.Unlock()

	s.client.ClearToken()

	if err := s.repo.Delete(ctx, s.profileID); err != nil {
		s.logger.Error("Logout: failed to delete durable session: %v", err)
	}

	s.logger.Info("Logout: session cleared for profile=%s", s.profileID)

	if wasAuthenticated {
		s.notify(false)
	}
}

// AccessToken синхронно возвращает текущий токен.
// Пустая строка означает отсутствие токена.
func (s *Service) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// IsAuthenticated возвращает true при наличии токена или пользователя
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated()
}

// CurrentUser возвращает пользователя текущей сессии или nil
func (s *Service) CurrentUser() *models.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return models.FromDomainUser(s.current.User)
}

// TokenExpiresWithin возвращает true, если access-токен истекает
// в течение d (или уже истек, или его нет). Срок берется из exp claim
// JWT без проверки подписи - ключа подписи у клиента нет.
func (s *Service) TokenExpiresWithin(d time.Duration) bool {
	token := s.AccessToken()
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Непарсящийся токен считаем истекшим - безопасный дефолт
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return time.Until(exp.Time) < d
}

// RefreshAccessToken обновляет access-токен через refresh-эндпоинт
// (cookie-креденшалы). При любой ошибке сессия сбрасывается целиком:
// неудачный refresh никогда не оставляет устаревший токен.
func (s *Service) RefreshAccessToken(ctx context.Context) (string, error) {
	account, err := s.client.Refresh(ctx)
	if err != nil {
		s.logger.Warn("RefreshAccessToken: refresh failed, logging out: %v", err)
		s.Logout(ctx)
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	s.mu.RLock()
	rememberMe := s.current != nil && s.current.RememberMe
	prevUser := (*domain.User)(nil)
	if s.current != nil {
		prevUser = s.current.User
	}
	s.mu.RUnlock()

	session := &domain.Session{
		ProfileID:    s.profileID,
		Token:        account.AccessToken,
		RefreshToken: account.RefreshToken,
		RememberMe:   rememberMe,
	}
	if account.User != nil {
		session.User = account.User.ToDomain()
	} else {
		session.User = prevUser
	}

	s.persist(ctx, session)

	s.logger.Info("RefreshAccessToken: token refreshed for profile=%s", s.profileID)
	return account.AccessToken, nil
}

// RequestEmailConfirmation отправляет письмо подтверждения email
// с троттлингом повторных отправок. autoSend=true приходит из
// процесса логина (ErrEmailNotConfirmed) и пропускает троттлинг-ошибку
// молча: пользователь попадает на экран подтверждения в любом случае.
func (s *Service) RequestEmailConfirmation(ctx context.Context, email string, autoSend bool) error {
	sent, err := s.repo.ConfirmationSentWithin(ctx, email, confirmationThrottle)
	if err != nil {
		s.logger.Error("RequestEmailConfirmation: throttle check failed for email=%s: %v", email, err)
		return fmt.Errorf("%w: RequestEmailConfirmation - repository error: %v", ErrInternal, err)
	}

	if sent {
		if autoSend {
			s.logger.Info("RequestEmailConfirmation: already sent recently to email=%s, skipping auto-send", email)
			return nil
		}
		s.logger.Warn("RequestEmailConfirmation: throttled for email=%s", email)
		return ErrConfirmationThrottled
	}

	if err := s.client.ResendConfirmation(ctx, email); err != nil {
		s.logger.Error("RequestEmailConfirmation: send failed for email=%s: %v", email, err)
		return fmt.Errorf("%w: RequestEmailConfirmation - client error: %v", ErrInternal, err)
	}

	if err := s.repo.MarkConfirmationSent(ctx, email); err != nil {
		// Письмо уже ушло; сбой отметки только ослабляет троттлинг
		s.logger.Error("RequestEmailConfirmation: failed to mark sent for email=%s: %v", email, err)
	}

	return nil
}

// OnAuthChange подписывает fn на переходы аутентификации.
// fn вызывается синхронно с новым состоянием.
func (s *Service) OnAuthChange(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// persist сохраняет сессию в scoped-уровень, durable-уровень
// (при rememberMe) и устанавливает токен в API клиент
func (s *Service) persist(ctx context.Context, session *domain.Session) {
	s.mu.Lock()
	wasAuthenticated := s.current.IsAuthenticated()
	s.current = session
	s.mu.Unlock()

	s.client.SetToken(session.Token)

	if session.RememberMe {
		if err := s.repo.Save(ctx, session); err != nil {
			// Аутентификация уже состоялась; durable-сбой не откатывает ее
			s.logger.Error("persist: failed to save durable session: %v", err)
		}
	} else {
		// Явный вход без rememberMe затирает старую durable-сессию
		if err := s.repo.Delete(ctx, s.profileID); err != nil {
			s.logger.Error("persist: failed to drop stale durable session: %v", err)
		}
	}

	if !wasAuthenticated {
		s.notify(true)
	}
}

// notify уведомляет подписчиков о переходе аутентификации
func (s *Service) notify(authenticated bool) {
	s.mu.RLock()
	subscribers := make([]func(bool), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(authenticated)
	}
}
