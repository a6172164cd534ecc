package domain

import "time"

// PaymentStatus статус оплаты резервации/заказа
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPaid      PaymentStatus = "Paid"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentCancelled PaymentStatus = "Cancelled"
)

// IsTerminal возвращает true, если статус финальный и опрос можно прекратить
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentPaid || s == PaymentFailed || s == PaymentCancelled
}

// IsValid возвращает true для известного статуса
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentCancelled:
		return true
	default:
		return false
	}
}

// RecoveryAction действие, которое нужно предложить пользователю
// при ошибке проверки статуса. Выводится из типизированных ошибок
// клиента API, а не из текста сообщения.
type RecoveryAction string

const (
	// RecoveryNone восстановление не требуется
	RecoveryNone RecoveryAction = "none"
	// RecoveryPayToActivate подписка не активирована - нужна оплата (400)
	RecoveryPayToActivate RecoveryAction = "pay_to_activate"
	// RecoveryRenewSubscription подписка истекла - нужно продление (401)
	RecoveryRenewSubscription RecoveryAction = "renew_subscription"
	// RecoveryRetry временная ошибка - можно повторить запрос
	RecoveryRetry RecoveryAction = "retry"
)

// StatusRecord запись статуса резервации/заказа, принадлежащая бекенду.
// Клиент только читает ее; единственный локальный инвариант:
// пока статус Pending, запись перечитывается с фиксированным интервалом.
type StatusRecord struct {
	MerchantOrderID   string
	ReservationNumber string
	PaymentStatus     PaymentStatus
	Amount            float64
	PaymentURL        string // ссылка на шлюз, если оплата еще не произведена
	FetchedAt         time.Time
}
