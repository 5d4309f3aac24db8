// Package favorites keeps the user's favorited artwork ids in local
// persistent storage and signals changes over the notification bus.
package favorites

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/artvia/artvia-backend/pkg/eventbus"
	"github.com/artvia/artvia-backend/pkg/localstore"
	"github.com/artvia/artvia-backend/pkg/logger"
)

// StorageKey is the store collection holding the favorites list.
const StorageKey = "favorites"

// Manager is safe for concurrent use. Storage failures degrade to an
// empty set or a skipped persist, never to an error for the caller.
type Manager struct {
	mu    sync.Mutex
	store localstore.Store
	bus   *eventbus.Bus
	logg  *logger.Logger
}

// NewManager wires the manager. bus and logg may be nil.
func NewManager(store localstore.Store, bus *eventbus.Bus, logg *logger.Logger) *Manager {
	return &Manager{store: store, bus: bus, logg: logg}
}

// load reads the persisted id list. Corrupt payloads read as empty.
func (m *Manager) load() []string {
	raw, ok := m.store.Get(StorageKey)
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		m.warn("favorites payload corrupt, treating as empty")
		return nil
	}
	return ids
}

func (m *Manager) persist(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		m.warn("favorites payload not serializable, skipping persist")
		return
	}
	if err := m.store.Set(StorageKey, string(raw)); err != nil {
		m.warn("favorites persist failed")
	}
}

func (m *Manager) warn(msg string) {
	if m.logg != nil {
		m.logg.Warn(context.Background(), msg)
	}
}

func (m *Manager) publish() {
	if m.bus != nil {
		m.bus.Publish(eventbus.TopicFavoritesUpdated, nil)
	}
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

// Get returns the favorited ids in insertion order. Never fails.
func (m *Manager) Get() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Is reports whether id is favorited.
func (m *Manager) Is(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return contains(m.load(), normalizeID(id))
}

// Add inserts id. Returns false without publishing when id is already
// present; returns true and publishes on actual insert.
func (m *Manager) Add(id string) bool {
	id = normalizeID(id)
	if id == "" {
		return false
	}

	m.mu.Lock()
	ids := m.load()
	if contains(ids, id) {
		m.mu.Unlock()
		return false
	}
	m.persist(append(ids, id))
	m.mu.Unlock()

	m.publish()
	return true
}

// Remove deletes id if present. Publishes unconditionally, matching the
// observable behavior callers already rely on for refresh.
func (m *Manager) Remove(id string) {
	id = normalizeID(id)

	m.mu.Lock()
	ids := m.load()
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	m.persist(kept)
	m.mu.Unlock()

	m.publish()
}

// Toggle flips membership and reports the resulting state
// (true = now favorited).
func (m *Manager) Toggle(id string) bool {
	if m.Is(id) {
		m.Remove(id)
		return false
	}
	return m.Add(id)
}

// Clear empties the set and publishes.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.persist(nil)
	m.mu.Unlock()

	m.publish()
}

// Count returns the number of favorited ids.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.load())
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
