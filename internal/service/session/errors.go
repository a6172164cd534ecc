package session

import "errors"

var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль
	ErrInvalidCredentials = errors.New("session: invalid credentials")

	// ErrEmailNotConfirmed возвращается, когда email аккаунта не подтвержден.
	// Вызывающая сторона перенаправляет пользователя в процесс подтверждения.
	ErrEmailNotConfirmed = errors.New("session: email not confirmed")

	// ErrRefreshFailed возвращается при неудачном обновлении токена.
	// Сессия при этом гарантированно сброшена.
	ErrRefreshFailed = errors.New("session: token refresh failed")

	// ErrConfirmationThrottled возвращается, когда письмо подтверждения
	// на этот email уже отправлялось недавно
	ErrConfirmationThrottled = errors.New("session: confirmation email already sent recently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("session: internal error")
)
