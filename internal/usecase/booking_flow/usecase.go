package booking_flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// UseCase фабрика процессов бронирования. Один общий контроллер шагов
// инстанцируется для каждого типа ресурса: запись в клинику (с выбором
// врача), выезд на дом, онлайн-консультация, пакет туризма, рецепт.
type UseCase struct {
	client BookingClient
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(client BookingClient, logger Logger) *UseCase {
	return &UseCase{
		client: client,
		logger: logger,
	}
}

// Flow один процесс бронирования. Владеет черновиком эксклюзивно:
// черновик не виден за пределами процесса и уничтожается при закрытии.
type Flow struct {
	uc    *UseCase
	mu    sync.Mutex
	draft *domain.BookingDraft
	step  domain.FlowStep
	state domain.FlowState

	// lastErr последняя ошибка загрузки вариантов. Загрузочные сбои
	// не прерывают навигацию - шаг показывает пустой список.
	lastErr error
}

// Start создает процесс бронирования и загружает варианты первого шага.
// Для клиник первый шаг - выбор врача, для остальных - выбор дня.
// Сбой загрузки не отменяет создание процесса (ErrOptionsFetch).
func (uc *UseCase) Start(ctx context.Context, kind domain.ResourceKind, resourceID int64) (*Flow, error) {
	if resourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if _, ok := map[domain.ResourceKind]bool{
		domain.KindClinic:       true,
		domain.KindHome:         true,
		domain.KindConsultation: true,
		domain.KindPackage:      true,
		domain.KindPrescription: true,
	}[kind]; !ok {
		return nil, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidInput, kind)
	}

	draft := &domain.BookingDraft{
		ID:         uuid.NewString(),
		Kind:       kind,
		ResourceID: resourceID,
	}

	flow := &Flow{
		uc:    uc,
		draft: draft,
		step:  draft.InitialStep(),
		state: domain.FlowActive,
	}

	uc.logger.Info("Start: flow=%s kind=%s resource=%d step=%s",
		draft.ID, kind, resourceID, flow.step)

	if err := flow.fetchCurrentOptions(ctx); err != nil {
		return flow, err
	}
	return flow, nil
}

// Step возвращает текущий шаг процесса
func (f *Flow) Step() domain.FlowStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// State возвращает состояние процесса
func (f *Flow) State() domain.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft возвращает копию черновика для чтения
func (f *Flow) Draft() domain.BookingDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.draft
}

// LastError возвращает последнюю ошибку загрузки вариантов
func (f *Flow) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Doctors возвращает кэшированный список врачей
func (f *Flow) Doctors() []domain.Doctor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Doctor(nil), f.draft.Doctors...)
}

// Days возвращает кэшированный список дней
func (f *Flow) Days() []domain.Day {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Day(nil), f.draft.Days...)
}

// Slots возвращает кэшированный список слотов
func (f *Flow) Slots() []domain.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Slot(nil), f.draft.Slots...)
}

// Members возвращает кэшированных участников семейной карты
func (f *Flow) Members() []domain.HealthCardMember {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.HealthCardMember(nil), f.draft.Members...)
}

// SelectDoctor записывает врача в черновик, переходит к выбору дня
// и загружает дни, отфильтрованные по врачу. Сбой загрузки оставляет
// пустой список дней, но шаг совершается (ErrOptionsFetch).
func (f *Flow) SelectDoctor(ctx context.Context, doctorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureActiveAt(domain.StepSelectingDoctor); err != nil {
		return err
	}

	var selected *domain.Doctor
	for i := range f.draft.Doctors {
		if f.draft.Doctors[i].ID == doctorID {
			selected = &f.draft.Doctors[i]
			break
		}
	}
	if selected == nil {
		f.uc.logger.Warn("SelectDoctor: flow=%s doctor=%d not in options", f.draft.ID, doctorID)
		return ErrOptionNotAvailable
	}

	f.draft.SelectedDoctor = selected
	f.step = domain.StepSelectingDay
	f.uc.logger.Info("SelectDoctor: flow=%s doctor=%d, advancing to %s", f.draft.ID, doctorID, f.step)

	return f.fetchCurrentOptionsLocked(ctx)
}

// SelectDay записывает день в черновик, переходит к выбору слота
// и загружает слоты на выбранный день
func (f *Flow) SelectDay(ctx context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureActiveAt(domain.StepSelectingDay); err != nil {
		return err
	}

	var selected *domain.Day
	for i := range f.draft.Days {
		if f.draft.Days[i].Date == date {
			selected = &f.draft.Days[i]
			break
		}
	}
	if selected == nil {
		f.uc.logger.Warn("SelectDay: flow=%s date=%s not in options", f.draft.ID, date)
		return ErrOptionNotAvailable
	}

	f.draft.SelectedDay = selected
	f.step = domain.StepSelectingSlot
	f.uc.logger.Info("SelectDay: flow=%s date=%s, advancing to %s", f.draft.ID, date, f.step)

	return f.fetchCurrentOptionsLocked(ctx)
}

// SelectSlot записывает слот в черновик (AppointmentID - id слота)
// и переходит к вводу деталей. Загрузок на этом переходе нет.
func (f *Flow) SelectSlot(appointmentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureActiveAt(domain.StepSelectingSlot); err != nil {
		return err
	}

	var selected *domain.Slot
	for i := range f.draft.Slots {
		if f.draft.Slots[i].AppointmentID == appointmentID {
			selected = &f.draft.Slots[i]
			break
		}
	}
	if selected == nil {
		f.uc.logger.Warn("SelectSlot: flow=%s appointment=%d not in options", f.draft.ID, appointmentID)
		return ErrOptionNotAvailable
	}

	f.draft.SelectedSlot = selected
	f.draft.AppointmentID = selected.AppointmentID
	f.step = domain.StepEnteringDetails
	f.uc.logger.Info("SelectSlot: flow=%s appointment=%d, advancing to %s", f.draft.ID, appointmentID, f.step)

	return nil
}

// Back возвращается на предыдущий шаг. Только декремент шага:
// уже загруженные списки вариантов не очищаются и показываются повторно
// без перезагрузки. Повторный проход вперед загружает списки заново.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.FlowActive {
		return ErrFlowClosed
	}

	initial := f.draft.InitialStep()
	if f.step <= initial {
		return ErrCannotGoBack
	}

	prev := f.step
	f.step--
	f.uc.logger.Info("Back: flow=%s %s -> %s", f.draft.ID, prev, f.step)
	return nil
}

// UseHealthCard переключает ввод имени на участника семейной карты.
// Карта загружается по требованию; ее отсутствие (ErrNoHealthCard)
// оставляет доступным только ручной ввод.
func (f *Flow) UseHealthCard(ctx context.Context) ([]domain.HealthCardMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureActiveAt(domain.StepEnteringDetails); err != nil {
		return nil, err
	}

	card, err := f.uc.client.GetHealthCard(ctx)
	if err != nil {
		if errors.Is(err, healthapi.ErrHealthCardNotFound) {
			f.uc.logger.Info("UseHealthCard: flow=%s user has no health card", f.draft.ID)
			f.draft.IsHealthCardUser = false
			return nil, ErrNoHealthCard
		}
		f.uc.logger.Error("UseHealthCard: flow=%s fetch failed: %v", f.draft.ID, err)
		return nil, fmt.Errorf("%w: failed to fetch health card: %v", ErrInternal, err)
	}

	f.draft.IsHealthCardUser = true
	f.draft.Members = card.ToDomainMembers()
	f.uc.logger.Info("UseHealthCard: flow=%s loaded %d members", f.draft.ID, len(f.draft.Members))

	return append([]domain.HealthCardMember(nil), f.draft.Members...), nil
}

// SelectHealthCardMember выбирает участника карты как идентичность
// резервации
func (f *Flow) SelectHealthCardMember(memberID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureActiveAt(domain.StepEnteringDetails); err != nil {
		return err
	}
	if !f.draft.IsHealthCardUser {
		return fmt.Errorf("%w: health card mode is not enabled", ErrInvalidInput)
	}

	for _, m := range f.draft.Members {
		if m.ID == memberID {
			f.draft.UserName = m.Name
			f.draft.SelectedHealthCardName = m.Name
			f.uc.logger.Info("SelectHealthCardMember: flow=%s member=%d", f.draft.ID, memberID)
			return nil
		}
	}

	return ErrOptionNotAvailable
}

// UseManualIdentity возвращает ручной ввод имени
func (f *Flow) UseManualIdentity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.IsHealthCardUser = false
	f.draft.SelectedHealthCardName = ""
}

// Submit отправляет резервацию multipart-запросом.
// Успех завершает процесс (FlowSubmitted) и возвращает подтверждение
// с опциональной ссылкой на оплату. Неуспех возвращает процесс на шаг
// ввода деталей с сохраненным черновиком - это единственный сбой,
// блокирующий движение вперед.
func (f *Flow) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureActiveAt(domain.StepEnteringDetails); err != nil {
		return nil, err
	}

	if err := validateSubmit(f.draft.Kind, req); err != nil {
		f.uc.logger.Warn("Submit: flow=%s validation failed: %v", f.draft.ID, err)
		return nil, err
	}

	f.draft.UserName = req.UserName
	f.draft.UserMobile = req.UserMobile
	f.draft.Content = req.Content
	f.draft.PrescriptionImage = req.PrescriptionImage
	f.draft.PrescriptionName = req.PrescriptionName

	f.step = domain.StepSubmitting
	f.uc.logger.Info("Submit: flow=%s submitting kind=%s resource=%d",
		f.draft.ID, f.draft.Kind, f.draft.ResourceID)

	payload := healthapi.CreateReservationRequest{
		ResourceID:        f.draft.ResourceID,
		AppointmentID:     f.draft.AppointmentID,
		UserName:          f.draft.UserName,
		UserMobile:        f.draft.UserMobile,
		Content:           f.draft.Content,
		HealthCardName:    f.draft.SelectedHealthCardName,
		PrescriptionImage: f.draft.PrescriptionImage,
		PrescriptionName:  f.draft.PrescriptionName,
	}
	if f.draft.SelectedDay != nil {
		payload.Date = f.draft.SelectedDay.Date
	}

	confirmation, err := f.uc.client.CreateReservation(ctx, f.draft.Kind, payload)
	if err != nil {
		f.step = domain.StepEnteringDetails
		f.uc.logger.Error("Submit: flow=%s submit failed, draft kept: %v", f.draft.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	f.state = domain.FlowSubmitted
	f.uc.logger.Info("Submit: flow=%s submitted reservation=%s order=%s",
		f.draft.ID, confirmation.ReservationNumber, confirmation.MerchantOrderID)

	return &SubmitResponse{
		ReservationNumber: confirmation.ReservationNumber,
		MerchantOrderID:   confirmation.MerchantOrderID,
		PaymentURL:        confirmation.PaymentURL,
	}, nil
}

// Close закрывает процесс и уничтожает черновик
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.FlowActive {
		f.state = domain.FlowClosed
	}
	f.uc.logger.Info("Close: flow=%s state=%s", f.draft.ID, f.state)
	f.draft = &domain.BookingDraft{ID: f.draft.ID, Kind: f.draft.Kind, ResourceID: f.draft.ResourceID}
}

// ensureActiveAt проверяет состояние процесса и текущий шаг
func (f *Flow) ensureActiveAt(step domain.FlowStep) error {
	if f.state != domain.FlowActive {
		return ErrFlowClosed
	}
	if f.step != step {
		return fmt.Errorf("%w: at %s, expected %s", ErrWrongStep, f.step, step)
	}
	return nil
}

// fetchCurrentOptions загружает варианты текущего шага (с блокировкой)
func (f *Flow) fetchCurrentOptions(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCurrentOptionsLocked(ctx)
}

// fetchCurrentOptionsLocked загружает варианты текущего шага.
// Сбой загрузки записывает пустой список и lastErr, возвращая
// ErrOptionsFetch: навигация по процессу при этом не блокируется.
func (f *Flow) fetchCurrentOptionsLocked(ctx context.Context) error {
	switch f.step {
	case domain.StepSelectingDoctor:
		doctors, err := f.uc.client.GetDoctors(ctx, f.draft.ResourceID)
		if err != nil {
			f.draft.Doctors = nil
			return f.recordFetchError("doctors", err)
		}
		f.draft.Doctors = make([]domain.Doctor, len(doctors))
		for i, d := range doctors {
			f.draft.Doctors[i] = d.ToDomain()
		}

	case domain.StepSelectingDay:
		var doctorID *int64
		if f.draft.SelectedDoctor != nil {
			doctorID = &f.draft.SelectedDoctor.ID
		}
		days, err := f.uc.client.GetAvailableDays(ctx, f.draft.ResourceID, doctorID)
		if err != nil {
			f.draft.Days = nil
			return f.recordFetchError("days", err)
		}
		f.draft.Days = make([]domain.Day, len(days))
		for i, d := range days {
			f.draft.Days[i] = d.ToDomain()
		}

	case domain.StepSelectingSlot:
		var doctorID *int64
		if f.draft.SelectedDoctor != nil {
			doctorID = &f.draft.SelectedDoctor.ID
		}
		slots, err := f.uc.client.GetAvailableSlots(ctx, f.draft.ResourceID, doctorID, f.draft.SelectedDay.Date)
		if err != nil {
			f.draft.Slots = nil
			return f.recordFetchError("slots", err)
		}
		f.draft.Slots = make([]domain.Slot, len(slots))
		for i, s := range slots {
			f.draft.Slots[i] = s.ToDomain()
		}
	}

	f.lastErr = nil
	return nil
}

// recordFetchError запоминает сбой загрузки вариантов
func (f *Flow) recordFetchError(what string, err error) error {
	f.lastErr = err
	f.uc.logger.Error("fetchOptions: flow=%s failed to fetch %s: %v", f.draft.ID, what, err)
	return fmt.Errorf("%w: %s: %v", ErrOptionsFetch, what, err)
}
