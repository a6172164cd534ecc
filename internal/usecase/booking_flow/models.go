package booking_flow

// SubmitRequest детали резервации, вводимые на последнем шаге
type SubmitRequest struct {
	UserName          string
	UserMobile        string
	Content           string // жалоба / комментарий (опционально)
	PrescriptionImage []byte // фото рецепта (опционально)
	PrescriptionName  string // имя файла рецепта
}

// SubmitResponse результат успешной отправки резервации
type SubmitResponse struct {
	ReservationNumber string
	MerchantOrderID   string
	// PaymentURL ссылка на платежный шлюз; пустая строка, если
	// оплата не требуется
	PaymentURL string
}
