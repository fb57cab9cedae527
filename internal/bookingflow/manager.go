package bookingflow

import (
	"sync"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// Manager хранит активный мастер бронирования каждого чата.
// Один чат — один мастер; новый Start заменяет прежний.
type Manager struct {
	mu    sync.RWMutex
	flows map[int64]*Flow
}

func NewManager() *Manager {
	return &Manager{
		flows: make(map[int64]*Flow),
	}
}

// Start начинает новый мастер бронирования для чата
func (m *Manager) Start(chatID int64, facility *model.Facility) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()

	flow := New(facility)
	m.flows[chatID] = flow
	return flow
}

// Get возвращает активный мастер чата или nil
func (m *Manager) Get(chatID int64) *Flow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.flows[chatID]
}

// Clear удаляет мастер чата
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.flows, chatID)
}
