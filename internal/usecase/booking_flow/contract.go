package booking_flow

import (
	"context"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// BookingClient интерфейс клиента бронирований Insta Health API
type BookingClient interface {
	GetDoctors(ctx context.Context, clinicID int64) ([]healthapi.DoctorResponse, error)
	GetAvailableDays(ctx context.Context, resourceID int64, doctorID *int64) ([]healthapi.DayResponse, error)
	GetAvailableSlots(ctx context.Context, resourceID int64, doctorID *int64, date string) ([]healthapi.SlotResponse, error)
	GetHealthCard(ctx context.Context) (*healthapi.HealthCardResponse, error)
	CreateReservation(ctx context.Context, kind domain.ResourceKind, req healthapi.CreateReservationRequest) (*healthapi.ReservationConfirmation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
