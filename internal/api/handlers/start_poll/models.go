package start_poll

// StartPollRequest запрос на запуск опроса статуса оплаты
type StartPollRequest struct {
	// Kind - "order" (опрос по merchantOrderId) или "reservation"
	// (опрос по номеру резервации)
	Kind string `json:"kind"`
	ID   string `json:"id"`
}
