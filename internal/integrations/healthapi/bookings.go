package healthapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
)

// reservationEndpoints эндпоинт создания резервации для каждого типа ресурса
var reservationEndpoints = map[domain.ResourceKind]string{
	domain.KindClinic:       "/ServicesReservations",
	domain.KindHome:         "/HomeReservations",
	domain.KindConsultation: "/MedicalConsultationReservations",
	domain.KindPackage:      "/MedicalTourismPackageReservations",
	domain.KindPrescription: "/PrescriptionReservations",
}

// GetDoctors получает врачей клиники
func (c *Client) GetDoctors(ctx context.Context, clinicID int64) ([]DoctorResponse, error) {
	path := "/Doctors?clinicId=" + strconv.FormatInt(clinicID, 10)

	var doctors []DoctorResponse
	if _, err := c.doPaginated(ctx, "/Doctors", path, &doctors); err != nil {
		c.log.Error("GetDoctors: request failed for clinic=%d: %v", clinicID, err)
		return nil, err
	}
	return doctors, nil
}

// GetAvailableDays получает доступные для записи дни.
// Для клиник дни фильтруются по врачу (doctorID != nil),
// для остальных ресурсов запрашиваются без фильтра.
func (c *Client) GetAvailableDays(ctx context.Context, resourceID int64, doctorID *int64) ([]DayResponse, error) {
	query := url.Values{}
	query.Set("resourceId", strconv.FormatInt(resourceID, 10))
	if doctorID != nil {
		query.Set("doctorId", strconv.FormatInt(*doctorID, 10))
	}

	var days []DayResponse
	path := "/Appointments/AvailableDays?" + query.Encode()
	if _, err := c.doJSON(ctx, http.MethodGet, "/Appointments", path, nil, &days); err != nil {
		c.log.Error("GetAvailableDays: request failed for resource=%d: %v", resourceID, err)
		return nil, err
	}
	return days, nil
}

// GetAvailableSlots получает доступные слоты на день
func (c *Client) GetAvailableSlots(ctx context.Context, resourceID int64, doctorID *int64, date string) ([]SlotResponse, error) {
	query := url.Values{}
	query.Set("resourceId", strconv.FormatInt(resourceID, 10))
	query.Set("date", date)
	if doctorID != nil {
		query.Set("doctorId", strconv.FormatInt(*doctorID, 10))
	}

	var slots []SlotResponse
	path := "/Appointments/AvailableSlots?" + query.Encode()
	if _, err := c.doJSON(ctx, http.MethodGet, "/Appointments", path, nil, &slots); err != nil {
		c.log.Error("GetAvailableSlots: request failed for resource=%d date=%s: %v", resourceID, date, err)
		return nil, err
	}
	return slots, nil
}

// GetHealthCard получает семейную карту здоровья пользователя.
// Отсутствие карты (404) - ожидаемая бизнес-ситуация, а не сбой.
func (c *Client) GetHealthCard(ctx context.Context) (*HealthCardResponse, error) {
	var card HealthCardResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/HealthCards", "/HealthCards/My", nil, &card); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.log.Info("GetHealthCard: user has no health card")
			return nil, ErrHealthCardNotFound
		}
		c.log.Error("GetHealthCard: request failed: %v", err)
		return nil, err
	}
	return &card, nil
}

// CreateReservation создает резервацию выбранного типа.
// Тело - multipart/form-data: поля черновика плюс опциональный файл рецепта.
func (c *Client) CreateReservation(ctx context.Context, kind domain.ResourceKind, req CreateReservationRequest) (*ReservationConfirmation, error) {
	endpoint, ok := reservationEndpoints[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown resource kind %q", ErrInternal, kind)
	}

	body, contentType, err := buildReservationForm(req)
	if err != nil {
		return nil, err
	}

	var confirmation ReservationConfirmation
	if _, err := c.do(ctx, http.MethodPost, endpoint, endpoint, body, contentType, &confirmation); err != nil {
		c.log.Error("CreateReservation: request failed for kind=%s resource=%d: %v", kind, req.ResourceID, err)
		return nil, err
	}

	c.log.Info("CreateReservation: created kind=%s reservation=%s order=%s",
		kind, confirmation.ReservationNumber, confirmation.MerchantOrderID)
	return &confirmation, nil
}

// buildReservationForm собирает multipart тело запроса резервации
func buildReservationForm(req CreateReservationRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"resourceId": strconv.FormatInt(req.ResourceID, 10),
		"userName":   req.UserName,
		"userMobile": req.UserMobile,
	}
	if req.AppointmentID > 0 {
		fields["appointmentId"] = strconv.FormatInt(req.AppointmentID, 10)
	}
	if req.Date != "" {
		fields["date"] = req.Date
	}
	if req.Content != "" {
		fields["content"] = req.Content
	}
	if req.HealthCardName != "" {
		fields["healthCardName"] = req.HealthCardName
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("%w: failed to write form field %s: %v", ErrInternal, name, err)
		}
	}

	if len(req.PrescriptionImage) > 0 {
		name := req.PrescriptionName
		if name == "" {
			name = "prescription.jpg"
		}
		part, err := writer.CreateFormFile("prescriptionImage", name)
		if err != nil {
			return nil, "", fmt.Errorf("%w: failed to create form file: %v", ErrInternal, err)
		}
		if _, err := part.Write(req.PrescriptionImage); err != nil {
			return nil, "", fmt.Errorf("%w: failed to write form file: %v", ErrInternal, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: failed to finalize form: %v", ErrInternal, err)
	}

	return body, writer.FormDataContentType(), nil
}
