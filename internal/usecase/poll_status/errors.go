package poll_status

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("poll_status: invalid input data")

	// ErrAlreadyPolling возвращается при повторном запуске опроса
	// того же идентификатора
	ErrAlreadyPolling = errors.New("poll_status: poll for this id is already running")

	// ErrPollNotFound возвращается, когда опрос с таким идентификатором
	// не зарегистрирован
	ErrPollNotFound = errors.New("poll_status: poll not found")
)
