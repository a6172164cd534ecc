package booking_flow

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking_flow: invalid input data")

	// ErrWrongStep возвращается при операции, недопустимой на текущем шаге
	ErrWrongStep = errors.New("booking_flow: operation is not valid at this step")

	// ErrFlowClosed возвращается при операции над закрытым или
	// завершенным процессом
	ErrFlowClosed = errors.New("booking_flow: flow is closed")

	// ErrOptionNotAvailable возвращается при выборе варианта,
	// которого нет в загруженном списке
	ErrOptionNotAvailable = errors.New("booking_flow: selected option is not available")

	// ErrOptionsFetch возвращается, когда загрузка вариантов следующего
	// шага не удалась. Шаг при этом уже совершен: процесс показывает
	// пустой список и остается навигируемым.
	ErrOptionsFetch = errors.New("booking_flow: failed to fetch step options")

	// ErrNoHealthCard возвращается, когда у пользователя нет семейной
	// карты здоровья - остается только ручной ввод имени
	ErrNoHealthCard = errors.New("booking_flow: user has no health card")

	// ErrCannotGoBack возвращается при попытке шагнуть назад
	// с начального шага
	ErrCannotGoBack = errors.New("booking_flow: already at the first step")

	// ErrSubmitFailed возвращается при неуспешной отправке резервации.
	// Черновик сохранен, процесс возвращен на шаг ввода деталей.
	ErrSubmitFailed = errors.New("booking_flow: reservation submit failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_flow: internal error")
)
