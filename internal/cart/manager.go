// Package cart manages the shopping cart in local persistent storage
// and signals changes over the notification bus.
package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/artvia/artvia-backend/pkg/errors"
	"github.com/artvia/artvia-backend/pkg/eventbus"
	"github.com/artvia/artvia-backend/pkg/localstore"
	"github.com/artvia/artvia-backend/pkg/logger"
)

// StorageKey is the store collection holding the cart lines.
const StorageKey = "cart"

// Manager is safe for concurrent use. Storage failures degrade to an
// empty cart or a skipped persist, never to an error for the caller.
// Two processes sharing one store are last-writer-wins.
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

func (m *Manager) load() []LineItem {
	raw, ok := m.store.Get(StorageKey)
	if !ok || raw == "" {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		m.warn("cart payload corrupt, treating as empty")
		return nil
	}
	return items
}

func (m *Manager) persist(items []LineItem) {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		m.warn("cart payload not serializable, skipping persist")
		return
	}
	if err := m.store.Set(StorageKey, string(raw)); err != nil {
		m.warn("cart persist failed")
	}
}

func (m *Manager) warn(msg string) {
	if m.logg != nil {
		m.logg.Warn(context.Background(), msg)
	}
}

func (m *Manager) publish() {
	if m.bus != nil {
		m.bus.Publish(eventbus.TopicCartUpdated, nil)
	}
}

// Ids originate from multiple callers in different representations, so
// matching always compares normalized strings.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}

// Items returns the cart lines in insertion order. Never fails.
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Add appends item with quantity 1 and publishes. Returns a conflict
// error without mutating when the item id is already in the cart.
func (m *Manager) Add(item LineItem) error {
	item.ItemID = normalizeID(item.ItemID)
	if item.ItemID == "" {
		return errors.New(errors.CodeValidation, "item id is required")
	}

	m.mu.Lock()
	items := m.load()
	for _, existing := range items {
		if normalizeID(existing.ItemID) == item.ItemID {
			m.mu.Unlock()
			return errors.New(errors.CodeConflict, "item is already in the cart")
		}
	}
	item.Quantity = 1
	m.persist(append(items, item))
	m.mu.Unlock()

	m.publish()
	return nil
}

// SetQuantity updates the matching line's quantity and publishes.
// Quantities below 1 and unknown ids are silent no-ops.
func (m *Manager) SetQuantity(id string, quantity int) {
	if quantity < 1 {
		return
	}
	id = normalizeID(id)

	m.mu.Lock()
	items := m.load()
	found := false
	for i := range items {
		if normalizeID(items[i].ItemID) == id {
			items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return
	}
	m.persist(items)
	m.mu.Unlock()

	m.publish()
}

// Remove deletes the matching line if present. Publishes
// unconditionally so subscribers refresh from the store.
func (m *Manager) Remove(id string) {
	id = normalizeID(id)

	m.mu.Lock()
	items := m.load()
	kept := items[:0]
	for _, item := range items {
		if normalizeID(item.ItemID) != id {
			kept = append(kept, item)
		}
	}
	m.persist(kept)
	m.mu.Unlock()

	m.publish()
}

// Clear empties the cart and publishes.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.persist(nil)
	m.mu.Unlock()

	m.publish()
}

// Total returns the exact sum of unitPrice * quantity over all lines.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return total(m.load())
}

// Stats returns the line count, summed quantity and total value.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.load()
	quantity := 0
	for _, item := range items {
		quantity += item.Quantity
	}
	return Stats{
		ItemCount:     len(items),
		TotalQuantity: quantity,
		TotalValue:    total(items),
	}
}

// Snapshot converts the cart into the payment workflow's shape. It is
// a pure read; callers clear the cart only after payment succeeds.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.load()
	artworks := make([]ArtworkQuantity, 0, len(items))
	for _, item := range items {
		artworks = append(artworks, ArtworkQuantity{
			ArtworkID: item.ItemID,
			Quantity:  item.Quantity,
		})
	}
	return Snapshot{
		Artworks:    artworks,
		TotalAmount: total(items),
	}
}

func total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}
