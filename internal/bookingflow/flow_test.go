package bookingflow

import (
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFacility = &model.Facility{
	ID:           "66f1a2b3c4d5e6f7a8b9c0d1",
	Name:         "Футбольное поле",
	PricePerHour: 500,
}

func testGrid() []model.AvailabilitySlot {
	return []model.AvailabilitySlot{
		{StartTime: "10:00", EndTime: "11:00"},
		{StartTime: "11:00", EndTime: "12:00", IsBooked: true},
		{StartTime: "12:00", EndTime: "13:00"},
	}
}

func startedFlow(t *testing.T) *Flow {
	t.Helper()

	f := New(testFacility)
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	gen, err := f.ChooseDate(now.AddDate(0, 0, 1), now)
	require.NoError(t, err)
	require.True(t, f.ApplySlots(gen, testGrid()))

	return f
}

func TestNew_StartsAtDateSelection(t *testing.T) {
	f := New(testFacility)

	assert.Equal(t, StepSelectingDate, f.Step())
	assert.Empty(t, f.Date())
	assert.False(t, f.Loading())
}

func TestChooseDate_RejectsPastDate(t *testing.T) {
	f := New(testFacility)
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	_, err := f.ChooseDate(now.AddDate(0, 0, -1), now)
	assert.ErrorIs(t, err, ErrPastDate)
	assert.Equal(t, StepSelectingDate, f.Step())
}

func TestChooseDate_TodayIsAllowed(t *testing.T) {
	f := New(testFacility)
	// Вечер: сама дата ещё не прошла
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)

	_, err := f.ChooseDate(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), now)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", f.Date())
	assert.Equal(t, StepSelectingSlots, f.Step())
	assert.True(t, f.Loading())
}

func TestChooseDate_ChangingDateResetsSelection(t *testing.T) {
	f := startedFlow(t)
	require.NoError(t, f.Toggle("10:00"))
	require.Len(t, f.Selection(), 1)

	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	gen, err := f.ChooseDate(now.AddDate(0, 0, 2), now)
	require.NoError(t, err)

	assert.Empty(t, f.Selection())
	assert.Empty(t, f.Slots())
	assert.True(t, f.Loading())
	assert.True(t, f.ApplySlots(gen, testGrid()))
}

func TestApplySlots_StaleGenerationDropped(t *testing.T) {
	f := New(testFacility)
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	gen1, err := f.ChooseDate(now.AddDate(0, 0, 1), now)
	require.NoError(t, err)

	// Пользователь передумал до прихода ответа
	gen2, err := f.ChooseDate(now.AddDate(0, 0, 2), now)
	require.NoError(t, err)

	// Запоздавший ответ на первую дату отбрасывается
	assert.False(t, f.ApplySlots(gen1, testGrid()))
	assert.True(t, f.Loading())

	// Актуальный ответ применяется
	assert.True(t, f.ApplySlots(gen2, testGrid()))
	assert.False(t, f.Loading())
}

func TestAbortFetch_OnlyCurrentGeneration(t *testing.T) {
	f := New(testFacility)
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	gen1, _ := f.ChooseDate(now.AddDate(0, 0, 1), now)
	gen2, _ := f.ChooseDate(now.AddDate(0, 0, 2), now)

	assert.False(t, f.AbortFetch(gen1))
	assert.True(t, f.Loading())

	assert.True(t, f.AbortFetch(gen2))
	assert.False(t, f.Loading())
}

func TestToggle_WhileLoading(t *testing.T) {
	f := New(testFacility)
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	_, err := f.ChooseDate(now.AddDate(0, 0, 1), now)
	require.NoError(t, err)

	assert.ErrorIs(t, f.Toggle("10:00"), ErrFetchPending)
}

func TestToggle_UnknownSlot(t *testing.T) {
	f := startedFlow(t)

	assert.ErrorIs(t, f.Toggle("23:00"), ErrUnknownSlot)
}

func TestToggle_BookedSlotLeavesSelectionUnchanged(t *testing.T) {
	f := startedFlow(t)

	// Слот есть в сетке, но занят — ToggleSlot вернёт выбор как был
	require.NoError(t, f.Toggle("11:00"))
	assert.Empty(t, f.Selection())
}

func TestPayload_EmptySelection(t *testing.T) {
	f := startedFlow(t)

	_, err := f.Payload()
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestPayload_ComputesRangeAndTotal(t *testing.T) {
	f := startedFlow(t)
	require.NoError(t, f.Toggle("10:00"))
	require.NoError(t, f.Toggle("12:00"))

	payload, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "10:00", payload.StartTime)
	assert.Equal(t, "13:00", payload.EndTime)
	assert.Equal(t, 1000, f.Total())
}

func TestBackToDate_DiscardsSelection(t *testing.T) {
	f := startedFlow(t)
	require.NoError(t, f.Toggle("10:00"))

	require.NoError(t, f.BackToDate())

	assert.Equal(t, StepSelectingDate, f.Step())
	assert.Empty(t, f.Selection())
	assert.Empty(t, f.Slots())
}

func TestConfirm_IsTerminal(t *testing.T) {
	f := startedFlow(t)
	require.NoError(t, f.Toggle("10:00"))
	require.NoError(t, f.Confirm())

	assert.Equal(t, StepConfirmed, f.Step())

	// Из подтверждённого состояния переходов нет
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	_, err := f.ChooseDate(now.AddDate(0, 0, 3), now)
	assert.ErrorIs(t, err, ErrFlowFinished)
	assert.ErrorIs(t, f.Toggle("10:00"), ErrWrongStep)
	assert.ErrorIs(t, f.BackToDate(), ErrWrongStep)
	assert.ErrorIs(t, f.Confirm(), ErrWrongStep)
}

func TestConfirm_RequiresSlotStep(t *testing.T) {
	f := New(testFacility)
	assert.ErrorIs(t, f.Confirm(), ErrWrongStep)
}

func TestFlow_ConcurrentHandlersAreSerialized(t *testing.T) {
	// Telegram-обработчики работают в отдельных горутинах: пока один
	// применяет загруженные слоты, второй тап может сменить дату.
	// Проверяется под -race.
	f := New(testFacility)
	now := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for day := 1; day <= 2; day++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				gen, err := f.ChooseDate(now.AddDate(0, 0, day), now)
				if err != nil {
					continue
				}
				if f.ApplySlots(gen, testGrid()) {
					_ = f.Toggle("10:00")
				}
				_ = f.Selection()
				_ = f.Range()
			}
		}(day)
	}
	wg.Wait()

	// Состояние не повреждено: мастер доводится до конца как обычно
	gen, err := f.ChooseDate(now.AddDate(0, 0, 3), now)
	require.NoError(t, err)
	require.True(t, f.ApplySlots(gen, testGrid()))
	require.NoError(t, f.Toggle("10:00"))

	payload, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "10:00", payload.StartTime)
	require.NoError(t, f.Confirm())
	assert.Equal(t, StepConfirmed, f.Step())
}

func TestManager_StartReplacesFlow(t *testing.T) {
	m := NewManager()

	first := m.Start(42, testFacility)
	second := m.Start(42, testFacility)

	assert.NotSame(t, first, second)
	assert.Same(t, second, m.Get(42))

	m.Clear(42)
	assert.Nil(t, m.Get(42))
}
