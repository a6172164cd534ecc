package booking_flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

type fakeBookingClient struct {
	doctors []healthapi.DoctorResponse
	days    []healthapi.DayResponse
	slots   []healthapi.SlotResponse
	card    *healthapi.HealthCardResponse

	doctorsErr error
	daysErr    error
	slotsErr   error
	cardErr    error
	createErr  error

	confirmation *healthapi.ReservationConfirmation

	doctorsCalls int
	daysCalls    int
	slotsCalls   int
	createCalls  int

	lastKind    domain.ResourceKind
	lastPayload healthapi.CreateReservationRequest
}

func (f *fakeBookingClient) GetDoctors(ctx context.Context, clinicID int64) ([]healthapi.DoctorResponse, error) {
	f.doctorsCalls++
	if f.doctorsErr != nil {
		return nil, f.doctorsErr
	}
	return f.doctors, nil
}

func (f *fakeBookingClient) GetAvailableDays(ctx context.Context, resourceID int64, doctorID *int64) ([]healthapi.DayResponse, error) {
	f.daysCalls++
	if f.daysErr != nil {
		return nil, f.daysErr
	}
	return f.days, nil
}

func (f *fakeBookingClient) GetAvailableSlots(ctx context.Context, resourceID int64, doctorID *int64, date string) ([]healthapi.SlotResponse, error) {
	f.slotsCalls++
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return f.slots, nil
}

func (f *fakeBookingClient) GetHealthCard(ctx context.Context) (*healthapi.HealthCardResponse, error) {
	if f.cardErr != nil {
		return nil, f.cardErr
	}
	return f.card, nil
}

func (f *fakeBookingClient) CreateReservation(ctx context.Context, kind domain.ResourceKind, req healthapi.CreateReservationRequest) (*healthapi.ReservationConfirmation, error) {
	f.createCalls++
	f.lastKind = kind
	f.lastPayload = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.confirmation, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func clinicClient() *fakeBookingClient {
	return &fakeBookingClient{
		doctors: []healthapi.DoctorResponse{
			{ID: 1, Name: "Dr. Amal", Speciality: "Cardiology"},
			{ID: 2, Name: "Dr. Hisham", Speciality: "Dermatology"},
		},
		days: []healthapi.DayResponse{
			{Date: "2026-09-01", Name: "Tuesday"},
			{Date: "2026-09-02", Name: "Wednesday"},
		},
		slots: []healthapi.SlotResponse{
			{AppointmentID: 100, StartTime: "09:00", EndTime: "09:30"},
			{AppointmentID: 101, StartTime: "09:30", EndTime: "10:00"},
		},
		confirmation: &healthapi.ReservationConfirmation{
			ReservationNumber: "RSV-1",
			MerchantOrderID:   "MO-1",
			PaymentURL:        "https://gateway.example.com/pay/MO-1",
		},
	}
}

// advanceToDetails проводит клинический процесс до шага ввода деталей
func advanceToDetails(t *testing.T, flow *Flow) {
	t.Helper()
	require.NoError(t, flow.SelectDoctor(context.Background(), 1))
	require.NoError(t, flow.SelectDay(context.Background(), "2026-09-01"))
	require.NoError(t, flow.SelectSlot(100))
}

func TestStart_ClinicBeginsWithDoctorStep(t *testing.T) {
	client := clinicClient()
	uc := NewUseCase(client, nopLogger{})

	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectingDoctor, flow.Step())
	assert.Len(t, flow.Doctors(), 2)
	assert.Equal(t, 1, client.doctorsCalls)
}

func TestStart_HomeBeginsWithDayStep(t *testing.T) {
	client := clinicClient()
	uc := NewUseCase(client, nopLogger{})

	flow, err := uc.Start(context.Background(), domain.KindHome, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.StepSelectingDay, flow.Step())
	assert.Zero(t, client.doctorsCalls)
	assert.Equal(t, 1, client.daysCalls)
}

func TestStart_InvalidInput(t *testing.T) {
	uc := NewUseCase(clinicClient(), nopLogger{})

	_, err := uc.Start(context.Background(), domain.KindClinic, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Start(context.Background(), domain.ResourceKind("spa"), 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStart_FetchFailureStillCreatesFlow(t *testing.T) {
	client := clinicClient()
	client.doctorsErr = errors.New("network down")
	uc := NewUseCase(client, nopLogger{})

	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)

	assert.ErrorIs(t, err, ErrOptionsFetch)
	require.NotNil(t, flow)
	assert.Equal(t, domain.StepSelectingDoctor, flow.Step())
	assert.Empty(t, flow.Doctors())
	assert.Error(t, flow.LastError())
}

func TestSelectDoctor_AdvancesAndFetchesDays(t *testing.T) {
	client := clinicClient()
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)

	require.NoError(t, flow.SelectDoctor(context.Background(), 1))

	assert.Equal(t, domain.StepSelectingDay, flow.Step())
	assert.Len(t, flow.Days(), 2)
	draft := flow.Draft()
	require.NotNil(t, draft.SelectedDoctor)
	assert.Equal(t, int64(1), draft.SelectedDoctor.ID)
}

func TestSelectDoctor_NotInOptions(t *testing.T) {
	uc := NewUseCase(clinicClient(), nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)

	err = flow.SelectDoctor(context.Background(), 99)

	assert.ErrorIs(t, err, ErrOptionNotAvailable)
	assert.Equal(t, domain.StepSelectingDoctor, flow.Step())
}

func TestSelectSlot_SetsAppointmentAndAdvancesOneStep(t *testing.T) {
	client := clinicClient()
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)

	require.NoError(t, flow.SelectDoctor(context.Background(), 1))
	require.NoError(t, flow.SelectDay(context.Background(), "2026-09-01"))

	require.NoError(t, flow.SelectSlot(100))

	assert.Equal(t, domain.StepEnteringDetails, flow.Step())
	draft := flow.Draft()
	assert.Equal(t, int64(100), draft.AppointmentID)
	require.NotNil(t, draft.SelectedSlot)
}

func TestSelectDay_WrongStep(t *testing.T) {
	uc := NewUseCase(clinicClient(), nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)

	err = flow.SelectDay(context.Background(), "2026-09-01")

	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBack_KeepsCachedOptions(t *testing.T) {
	client := clinicClient()
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)
	require.NoError(t, flow.SelectDoctor(context.Background(), 1))

	daysCallsBefore := client.daysCalls

	require.NoError(t, flow.Back())

	assert.Equal(t, domain.StepSelectingDoctor, flow.Step())
	// Списки не перезагружаются и не очищаются
	assert.Equal(t, daysCallsBefore, client.daysCalls)
	assert.Len(t, flow.Doctors(), 2)
	assert.Len(t, flow.Days(), 2)
}

func TestBack_FromInitialStepRejected(t *testing.T) {
	uc := NewUseCase(clinicClient(), nopLogger{})

	clinic, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)
	assert.ErrorIs(t, clinic.Back(), ErrCannotGoBack)

	home, err := uc.Start(context.Background(), domain.KindHome, 5)
	require.NoError(t, err)
	assert.ErrorIs(t, home.Back(), ErrCannotGoBack)
}

func TestUseHealthCard_NoCard(t *testing.T) {
	client := clinicClient()
	client.cardErr = healthapi.ErrHealthCardNotFound
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)
	advanceToDetails(t, flow)

	_, err = flow.UseHealthCard(context.Background())

	assert.ErrorIs(t, err, ErrNoHealthCard)
	assert.False(t, flow.Draft().IsHealthCardUser)
}

func TestUseHealthCard_SelectMember(t *testing.T) {
	client := clinicClient()
	client.card = &healthapi.HealthCardResponse{
		ID: 7,
		Members: []healthapi.HealthCardMemberResponse{
			{ID: 10, Name: "Salma", Relation: "daughter"},
		},
	}
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)
	advanceToDetails(t, flow)

	members, err := flow.UseHealthCard(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.NoError(t, flow.SelectHealthCardMember(10))

	draft := flow.Draft()
	assert.Equal(t, "Salma", draft.UserName)
	assert.Equal(t, "Salma", draft.SelectedHealthCardName)

	// Возврат к ручному вводу сбрасывает выбор карты
	flow.UseManualIdentity()
	draft = flow.Draft()
	assert.False(t, draft.IsHealthCardUser)
	assert.Empty(t, draft.SelectedHealthCardName)
}

func TestSubmit_Success(t *testing.T) {
	client := clinicClient()
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)
	advanceToDetails(t, flow)

	resp, err := flow.Submit(context.Background(), &SubmitRequest{
		UserName:   "Omar Aly",
		UserMobile: "+20123456789",
	})

	require.NoError(t, err)
	assert.Equal(t, "RSV-1", resp.ReservationNumber)
	assert.Equal(t, "MO-1", resp.MerchantOrderID)
	assert.Equal(t, domain.FlowSubmitted, flow.State())

	assert.Equal(t, domain.KindClinic, client.lastKind)
	assert.Equal(t, int64(5), client.lastPayload.ResourceID)
	assert.Equal(t, int64(100), client.lastPayload.AppointmentID)
	assert.Equal(t, "2026-09-01", client.lastPayload.Date)
}

func TestSubmit_FailureKeepsDraftAtDetails(t *testing.T) {
	client := clinicClient()
	client.createErr = errors.New("gateway timeout")
	uc := NewUseCase(client, nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)
	advanceToDetails(t, flow)

	_, err = flow.Submit(context.Background(), &SubmitRequest{
		UserName:   "Omar Aly",
		UserMobile: "+20123456789",
	})

	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, domain.StepEnteringDetails, flow.Step())
	assert.Equal(t, domain.FlowActive, flow.State())

	// Черновик сохранен, повторная отправка возможна
	draft := flow.Draft()
	assert.Equal(t, int64(100), draft.AppointmentID)
	assert.Equal(t, "Omar Aly", draft.UserName)

	client.createErr = nil
	_, err = flow.Submit(context.Background(), &SubmitRequest{
		UserName:   "Omar Aly",
		UserMobile: "+20123456789",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, client.createCalls)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	uc := NewUseCase(clinicClient(), nopLogger{})

	tests := []struct {
		name string
		kind domain.ResourceKind
		req  SubmitRequest
	}{
		{"missing name", domain.KindHome, SubmitRequest{UserMobile: "+20123456789"}},
		{"bad mobile", domain.KindHome, SubmitRequest{UserName: "Omar", UserMobile: "abc"}},
		{"short mobile", domain.KindHome, SubmitRequest{UserName: "Omar", UserMobile: "+123"}},
		{"prescription without image", domain.KindPrescription, SubmitRequest{UserName: "Omar", UserMobile: "+20123456789"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, err := uc.Start(context.Background(), tt.kind, 5)
			require.NoError(t, err)
			require.NoError(t, flow.SelectDay(context.Background(), "2026-09-01"))
			require.NoError(t, flow.SelectSlot(100))

			_, err = flow.Submit(context.Background(), &tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, domain.StepEnteringDetails, flow.Step())
		})
	}
}

func TestClose_DestroysDraftAndBlocksOperations(t *testing.T) {
	uc := NewUseCase(clinicClient(), nopLogger{})
	flow, err := uc.Start(context.Background(), domain.KindClinic, 5)
	require.NoError(t, err)

	flow.Close()

	assert.Equal(t, domain.FlowClosed, flow.State())
	assert.Empty(t, flow.Doctors())
	assert.ErrorIs(t, flow.SelectDoctor(context.Background(), 1), ErrFlowClosed)
	assert.ErrorIs(t, flow.Back(), ErrFlowClosed)
}
