package domain

import (
	"github.com/m04kA/IH-CoordinationService/pkg/types"
)

// ResourceKind тип бронируемого ресурса. Определяет набор шагов
// и эндпоинт создания резервации.
type ResourceKind string

const (
	KindClinic       ResourceKind = "clinic"       // прием в клинике (с выбором врача)
	KindHome         ResourceKind = "home"         // выезд на дом
	KindConsultation ResourceKind = "consultation" // онлайн-консультация
	KindPackage      ResourceKind = "package"      // пакет медицинского туризма
	KindPrescription ResourceKind = "prescription" // заказ по рецепту
)

// HasDoctorStep возвращает true, если для ресурса выбирается врач.
// Только клиника начинает с выбора врача, остальные - с выбора дня.
func (k ResourceKind) HasDoctorStep() bool {
	return k == KindClinic
}

// FlowStep шаг процесса бронирования
type FlowStep int

const (
	StepSelectingDoctor FlowStep = iota
	StepSelectingDay
	StepSelectingSlot
	StepEnteringDetails
	StepSubmitting
)

// String возвращает строковое представление шага
func (s FlowStep) String() string {
	switch s {
	case StepSelectingDoctor:
		return "selecting_doctor"
	case StepSelectingDay:
		return "selecting_day"
	case StepSelectingSlot:
		return "selecting_slot"
	case StepEnteringDetails:
		return "entering_details"
	case StepSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// FlowState итоговое состояние процесса
type FlowState string

const (
	FlowActive    FlowState = "active"
	FlowSubmitted FlowState = "submitted"
	FlowClosed    FlowState = "closed"
)

// Doctor врач, доступный для записи
type Doctor struct {
	ID         int64
	Name       string
	Speciality string
	ImageURL   string
}

// Day день, доступный для записи
type Day struct {
	Date string // YYYY-MM-DD
	Name string // локализованное имя дня недели
}

// Slot временной слот приема
type Slot struct {
	AppointmentID int64
	StartTime     types.TimeString
	EndTime       types.TimeString
}

// HealthCardMember участник семейной карты здоровья
type HealthCardMember struct {
	ID       int64
	Name     string
	Relation string
}

// BookingDraft черновик резервации, накапливающий выбор по шагам.
// Живет только внутри одного процесса бронирования и уничтожается
// при его закрытии. Поля, заполненные на шаге N, нужны для загрузки
// вариантов шага N+1.
type BookingDraft struct {
	ID         string // uuid экземпляра процесса
	Kind       ResourceKind
	ResourceID int64 // id клиники/услуги/пакета

	SelectedDoctor *Doctor
	SelectedDay    *Day
	SelectedSlot   *Slot
	AppointmentID  int64

	UserName          string
	UserMobile        string
	Content           string // жалоба / комментарий (опционально)
	PrescriptionImage []byte // фото рецепта (опционально)
	PrescriptionName  string // имя файла рецепта

	IsHealthCardUser       bool
	SelectedHealthCardName string

	// Кэш загруженных списков вариантов по шагам.
	// При возврате назад списки показываются повторно без перезагрузки.
	Doctors []Doctor
	Days    []Day
	Slots   []Slot
	Members []HealthCardMember
}

// InitialStep возвращает начальный шаг для типа ресурса
func (d *BookingDraft) InitialStep() FlowStep {
	if d.Kind.HasDoctorStep() {
		return StepSelectingDoctor
	}
	return StepSelectingDay
}
