package healthapi

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("healthapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе бекенда
	ErrInvalidResponse = errors.New("healthapi client: invalid response")

	// ErrRejected возвращается, когда бекенд вернул envelope с success=false
	ErrRejected = errors.New("healthapi client: request rejected by backend")

	// ErrBadRequest возвращается при статусе 400
	ErrBadRequest = errors.New("healthapi client: bad request")

	// ErrUnauthorized возвращается при статусе 401
	ErrUnauthorized = errors.New("healthapi client: unauthorized")

	// ErrNotFound возвращается при статусе 404
	ErrNotFound = errors.New("healthapi client: not found")

	// ErrInvalidCredentials возвращается при неверной паре email/пароль
	ErrInvalidCredentials = errors.New("healthapi client: invalid credentials")

	// ErrEmailNotConfirmed возвращается, когда аккаунт существует, но
	// email не подтвержден. Вызывающая сторона перенаправляет пользователя
	// в процесс подтверждения с подсказкой autoSend.
	ErrEmailNotConfirmed = errors.New("healthapi client: email not confirmed")

	// ErrHealthCardNotFound возвращается, когда у пользователя нет
	// семейной карты здоровья
	ErrHealthCardNotFound = errors.New("healthapi client: user has no health card")

	// ErrNotActivated возвращается эндпоинтами проверки статуса при 400:
	// подписка еще не активирована, требуется оплата
	ErrNotActivated = errors.New("healthapi client: subscription not activated")

	// ErrSubscriptionExpired возвращается эндпоинтами проверки статуса
	// при 401: подписка истекла, требуется продление
	ErrSubscriptionExpired = errors.New("healthapi client: subscription expired")
)
