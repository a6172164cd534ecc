package healthapi

import (
	"time"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/pkg/types"
)

// UserResponse пользователь из /Accounts
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
}

// ToDomain конвертирует DTO в domain модель
func (u *UserResponse) ToDomain() *domain.User {
	return &domain.User{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Mobile:   u.Mobile,
	}
}

// AccountResponse ответ /Accounts/Login и /Accounts/Refresh.
// Токен читается только из accessToken - вариативность имен полей
// в старом бекенде считается дефектом контракта и не поддерживается.
type AccountResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         *UserResponse `json:"user"`
}

// LoginRequest тело запроса /Accounts/Login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CartItemResponse позиция корзины из /Carts
type CartItemResponse struct {
	ProductID     int64    `json:"productId"`
	Name          string   `json:"name"`
	ImageURL      string   `json:"imageUrl"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Quantity      int      `json:"quantity"`
}

// ToDomain конвертирует DTO в domain модель
func (i *CartItemResponse) ToDomain() domain.CartItem {
	return domain.CartItem{
		ProductID:     i.ProductID,
		Name:          i.Name,
		ImageURL:      i.ImageURL,
		Price:         i.Price,
		DiscountPrice: i.DiscountPrice,
		Quantity:      i.Quantity,
	}
}

// AddCartItemRequest тело запроса POST /Carts.
// Опциональные поля передаются только если они есть у товара.
type AddCartItemRequest struct {
	ProductID     int64    `json:"productId"`
	Quantity      int      `json:"quantity"`
	Name          string   `json:"name,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
}

// UpdateCartItemRequest тело запроса PUT /Carts/{productId}
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// DoctorResponse врач из /Doctors
type DoctorResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
	ImageURL   string `json:"imageUrl"`
}

// ToDomain конвертирует DTO в domain модель
func (d *DoctorResponse) ToDomain() domain.Doctor {
	return domain.Doctor{
		ID:         d.ID,
		Name:       d.Name,
		Speciality: d.Speciality,
		ImageURL:   d.ImageURL,
	}
}

// DayResponse доступный день из /Appointments/AvailableDays
type DayResponse struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

// ToDomain конвертирует DTO в domain модель
func (d *DayResponse) ToDomain() domain.Day {
	return domain.Day{Date: d.Date, Name: d.Name}
}

// SlotResponse доступный слот из /Appointments/AvailableSlots
type SlotResponse struct {
	AppointmentID int64  `json:"appointmentId"`
	StartTime     string `json:"startTime"` // HH:MM
	EndTime       string `json:"endTime"`   // HH:MM
}

// ToDomain конвертирует DTO в domain модель
func (s *SlotResponse) ToDomain() domain.Slot {
	return domain.Slot{
		AppointmentID: s.AppointmentID,
		StartTime:     types.TimeString(s.StartTime),
		EndTime:       types.TimeString(s.EndTime),
	}
}

// HealthCardMemberResponse участник семейной карты из /HealthCards
type HealthCardMemberResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// HealthCardResponse семейная карта здоровья пользователя
type HealthCardResponse struct {
	ID      int64                      `json:"id"`
	Name    string                     `json:"name"`
	Members []HealthCardMemberResponse `json:"members"`
}

// ToDomainMembers конвертирует участников карты в domain модели
func (h *HealthCardResponse) ToDomainMembers() []domain.HealthCardMember {
	members := make([]domain.HealthCardMember, len(h.Members))
	for i, m := range h.Members {
		members[i] = domain.HealthCardMember{
			ID:       m.ID,
			Name:     m.Name,
			Relation: m.Relation,
		}
	}
	return members
}

// CreateReservationRequest поля multipart запроса создания резервации.
// PrescriptionImage отправляется файловой частью, остальные - полями формы.
type CreateReservationRequest struct {
	ResourceID        int64
	AppointmentID     int64
	Date              string // YYYY-MM-DD
	UserName          string
	UserMobile        string
	Content           string
	HealthCardName    string
	PrescriptionImage []byte
	PrescriptionName  string
}

// ReservationConfirmation ответ эндпоинтов создания резервации
type ReservationConfirmation struct {
	ReservationNumber string `json:"reservationNumber"`
	MerchantOrderID   string `json:"merchantOrderId"`
	PaymentURL        string `json:"paymentUrl,omitempty"`
}

// StatusResponse ответ эндпоинтов проверки статуса
type StatusResponse struct {
	MerchantOrderID   string  `json:"merchantOrderId"`
	ReservationNumber string  `json:"reservationNumber"`
	PaymentStatus     string  `json:"paymentStatus"`
	Amount            float64 `json:"amount"`
	PaymentURL        string  `json:"paymentUrl,omitempty"`
}

// ToDomain конвертирует DTO в domain модель, фиксируя время чтения
func (s *StatusResponse) ToDomain(fetchedAt time.Time) *domain.StatusRecord {
	return &domain.StatusRecord{
		MerchantOrderID:   s.MerchantOrderID,
		ReservationNumber: s.ReservationNumber,
		PaymentStatus:     domain.PaymentStatus(s.PaymentStatus),
		Amount:            s.Amount,
		PaymentURL:        s.PaymentURL,
		FetchedAt:         fetchedAt,
	}
}
