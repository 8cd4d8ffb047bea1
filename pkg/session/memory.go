package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the slots in process memory. It is the default for tests
// and for one-shot CLI invocations that should not persist credentials.
type MemoryStore struct {
	mu    sync.RWMutex
	slots Slots
	data  map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(namespace string) *MemoryStore {
	return &MemoryStore{
		slots: SlotsFor(namespace),
		data:  make(map[string]string, 3),
	}
}

// Slots returns the slot names this store writes.
func (m *MemoryStore) Slots() Slots { return m.slots }

func (m *MemoryStore) SetSession(_ context.Context, s Session) error {
	kv, err := Encode(m.slots, s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kv {
		m.data[k] = v
	}
	return nil
}

func (m *MemoryStore) AccessToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[m.slots.AccessToken], nil
}

func (m *MemoryStore) RefreshToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[m.slots.RefreshToken], nil
}

func (m *MemoryStore) User(_ context.Context) (*User, error) {
	m.mu.RLock()
	raw := m.data[m.slots.User]
	m.mu.RUnlock()
	return DecodeUser(raw)
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.slots.All() {
		delete(m.data, k)
	}
	return nil
}

// Raw returns the stored value of a slot, for inspection in tests.
func (m *MemoryStore) Raw(slot string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[slot]
	return v, ok
}
