package bookingflow

import (
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// Step шаг мастера бронирования
type Step string

const (
	StepSelectingDate  Step = "selecting_date"
	StepSelectingSlots Step = "selecting_slots"
	StepConfirmed      Step = "confirmed"
)

var (
	ErrPastDate       = errors.New("date is in the past")
	ErrEmptySelection = errors.New("no slots selected")
	ErrFetchPending   = errors.New("availability fetch is pending")
	ErrFlowFinished   = errors.New("booking flow already confirmed")
	ErrWrongStep      = errors.New("operation not allowed at this step")
	ErrUnknownSlot    = errors.New("slot is not in the fetched grid")
)

// Flow мастер бронирования одной площадки:
// выбор даты → выбор слотов → подтверждение.
// Назад из выбора слотов можно вернуться к дате (выбор сбрасывается),
// из подтверждённого состояния переходов нет — новое бронирование
// начинается новым Flow.
// Telegram доставляет апдейты одного чата в разных горутинах, поэтому
// всё состояние под мьютексом.
type Flow struct {
	mu sync.Mutex

	facility *model.Facility

	step       Step
	date       string // YYYY-MM-DD
	slots      []model.AvailabilitySlot
	selection  []model.AvailabilitySlot
	generation int
	loading    bool
}

func New(facility *model.Facility) *Flow {
	return &Flow{
		facility: facility,
		step:     StepSelectingDate,
	}
}

// Facility неизменна после создания, блокировка не нужна
func (f *Flow) Facility() *model.Facility { return f.facility }

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Date() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.date
}

func (f *Flow) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Slots возвращает загруженную сетку слотов.
// Слайсы всегда заменяются целиком, поэтому возвращённый срез
// безопасно читать после разблокировки.
func (f *Flow) Slots() []model.AvailabilitySlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots
}

// Selection возвращает текущий выбор слотов
func (f *Flow) Selection() []model.AvailabilitySlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection
}

// ChooseDate фиксирует дату и переводит мастер к выбору слотов.
// Прошедшие даты не выбираются. Смена даты сбрасывает прежний выбор.
// Возвращает номер поколения загрузки: применить результат загрузки
// можно только с актуальным номером — ответ на брошенную дату
// молча отбрасывается.
func (f *Flow) ChooseDate(date time.Time, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step == StepConfirmed {
		return 0, ErrFlowFinished
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return 0, ErrPastDate
	}

	f.date = date.Format("2006-01-02")
	f.slots = nil
	f.selection = nil
	f.step = StepSelectingSlots
	f.loading = true
	f.generation++

	return f.generation, nil
}

// ApplySlots применяет результат загрузки доступности.
// Возвращает false если результат устарел (дата сменилась раньше,
// чем пришёл ответ).
func (f *Flow) ApplySlots(generation int, slots []model.AvailabilitySlot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation || f.step != StepSelectingSlots {
		return false
	}

	f.slots = slots
	f.loading = false
	return true
}

// AbortFetch снимает флаг загрузки после ошибки.
// Возвращает false если результат устарел.
func (f *Flow) AbortFetch(generation int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		return false
	}

	f.loading = false
	return true
}

// BackToDate возвращает мастер к выбору даты, сбрасывая выбор слотов
func (f *Flow) BackToDate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSelectingSlots {
		return ErrWrongStep
	}

	f.step = StepSelectingDate
	f.slots = nil
	f.selection = nil
	f.loading = false
	return nil
}

// Toggle переключает слот в выборе. Пока идёт загрузка слоты
// неактивны; занятый слот выбрать нельзя (ToggleSlot вернёт выбор
// без изменений).
func (f *Flow) Toggle(startTime string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSelectingSlots {
		return ErrWrongStep
	}
	if f.loading {
		return ErrFetchPending
	}

	for _, slot := range f.slots {
		if slot.StartTime == startTime {
			f.selection = model.ToggleSlot(f.selection, slot)
			return nil
		}
	}

	return ErrUnknownSlot
}

// IsSelected проверяет выбран ли слот
func (f *Flow) IsSelected(slot model.AvailabilitySlot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.IsSelected(f.selection, slot)
}

// Range вычисляет границы бронирования из текущего выбора
func (f *Flow) Range() *model.SlotRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.ComputeRange(f.selection)
}

// Total считает стоимость текущего выбора
func (f *Flow) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.ComputeTotal(f.selection, f.facility.PricePerHour)
}

// Payload возвращает диапазон для отправки на backend.
// Отправлять нечего, пока не выбран хотя бы один слот.
func (f *Flow) Payload() (*model.SlotRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSelectingSlots {
		return nil, ErrWrongStep
	}
	if f.loading {
		return nil, ErrFetchPending
	}

	slotRange := model.ComputeRange(f.selection)
	if slotRange == nil {
		return nil, ErrEmptySelection
	}

	return slotRange, nil
}

// Confirm помечает мастер завершённым после успешного создания
// бронирования. Состояние терминальное. При ошибке отправки Confirm
// не вызывается — выбор сохраняется и пользователь может повторить.
func (f *Flow) Confirm() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSelectingSlots {
		return ErrWrongStep
	}

	f.step = StepConfirmed
	return nil
}
