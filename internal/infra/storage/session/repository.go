package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/pkg/dbmetrics"
	"github.com/m04kA/IH-CoordinationService/pkg/psqlbuilder"
)

// Repository durable-хранилище сессий (PostgreSQL).
// Дублирует scoped-уровень для сессий с remember_me, чтобы
// аутентификация переживала перезапуск процесса.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Save сохраняет сессию (upsert по profile_id)
func (r *Repository) Save(ctx context.Context, session *domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var userID, userEmail, userFullName, userMobile *string
	if session.User != nil {
		userID = &session.User.ID
		userEmail = &session.User.Email
		userFullName = &session.User.FullName
		userMobile = &session.User.Mobile
	}

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"profile_id",
			"token",
			"refresh_token",
			"user_id",
			"user_email",
			"user_full_name",
			"user_mobile",
			"remember_me",
		).
		Values(
			session.ProfileID,
			session.Token,
			session.RefreshToken,
			userID,
			userEmail,
			userFullName,
			userMobile,
			session.RememberMe,
		).
		Suffix(`ON CONFLICT (profile_id) DO UPDATE SET
			token = EXCLUDED.token,
			refresh_token = EXCLUDED.refresh_token,
			user_id = EXCLUDED.user_id,
			user_email = EXCLUDED.user_email,
			user_full_name = EXCLUDED.user_full_name,
			user_mobile = EXCLUDED.user_mobile,
			remember_me = EXCLUDED.remember_me,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return nil
}

// Get получает сессию по profile_id
func (r *Repository) Get(ctx context.Context, profileID string) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"profile_id",
		"token",
		"refresh_token",
		"user_id",
		"user_email",
		"user_full_name",
		"user_mobile",
		"remember_me",
		"created_at",
		"updated_at",
	).
		From("sessions").
		Where(squirrel.Eq{"profile_id": profileID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var session domain.Session
	var userID, userEmail, userFullName, userMobile sql.NullString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&session.ProfileID,
		&session.Token,
		&session.RefreshToken,
		&userID,
		&userEmail,
		&userFullName,
		&userMobile,
		&session.RememberMe,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan session: %v", ErrScanRow, err)
	}

	if userID.Valid {
		session.User = &domain.User{
			ID:       userID.String,
			Email:    userEmail.String,
			FullName: userFullName.String,
			Mobile:   userMobile.String,
		}
	}
	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return &session, nil
}

// Delete удаляет сессию. Отсутствие сессии ошибкой не считается -
// logout должен быть идемпотентным.
func (r *Repository) Delete(ctx context.Context, profileID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("sessions").
		Where(squirrel.Eq{"profile_id": profileID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// MarkConfirmationSent фиксирует отправку письма подтверждения email.
// Используется для троттлинга повторных отправок.
func (r *Repository) MarkConfirmationSent(ctx context.Context, email string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("email_confirmation_sends").
		Columns("email", "sent_at").
		Values(email, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (email) DO UPDATE SET sent_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkConfirmationSent - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkConfirmationSent - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// ConfirmationSentWithin возвращает true, если письмо подтверждения
// уже отправлялось на email за последние within
func (r *Repository) ConfirmationSentWithin(ctx context.Context, email string, within time.Duration) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("sent_at").
		From("email_confirmation_sends").
		Where(squirrel.Eq{"email": email}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ConfirmationSentWithin - build select query: %v", ErrBuildQuery, err)
	}

	var sentAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&sentAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ConfirmationSentWithin - scan row: %v", ErrScanRow, err)
	}

	return time.Since(sentAt) < within, nil
}
