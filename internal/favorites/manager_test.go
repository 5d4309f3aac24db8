package favorites

import (
	"testing"

	"github.com/artvia/artvia-backend/pkg/eventbus"
	"github.com/artvia/artvia-backend/pkg/localstore"
)

func newManager(t *testing.T) (*Manager, *eventbus.Bus, *int) {
	t.Helper()
	bus := eventbus.New(nil)
	published := 0
	bus.Subscribe(eventbus.TopicFavoritesUpdated, func(any) { published++ })
	return NewManager(localstore.NewMemStore(), bus, nil), bus, &published
}

func TestAddIsIdempotentAndPublishesOnlyOnInsert(t *testing.T) {
	m, _, published := newManager(t)

	if !m.Add("a1") {
		t.Fatal("first add should insert")
	}
	if m.Add("a1") {
		t.Fatal("second add should be a no-op")
	}
	if !m.Is("a1") {
		t.Fatal("a1 should be favorited")
	}
	if m.Count() != 1 {
		t.Fatalf("expected count 1, got %d", m.Count())
	}
	if *published != 1 {
		t.Fatalf("expected 1 publish, got %d", *published)
	}
}

func TestRemovePublishesEvenWhenAbsent(t *testing.T) {
	m, _, published := newManager(t)

	m.Add("a1")
	m.Remove("missing")

	if !m.Is("a1") {
		t.Fatal("unrelated id should stay favorited")
	}
	if *published != 2 {
		t.Fatalf("expected add + unconditional remove publish, got %d", *published)
	}
}

func TestToggleRestoresPriorState(t *testing.T) {
	m, _, _ := newManager(t)

	if got := m.Toggle("x"); !got {
		t.Fatal("toggle on empty set should favorite")
	}
	if got := m.Toggle("x"); got {
		t.Fatal("second toggle should unfavorite")
	}
	if m.Count() != 0 {
		t.Fatalf("expected empty set, got %d ids", m.Count())
	}
}

func TestClearEmptiesAndPublishes(t *testing.T) {
	m, _, published := newManager(t)

	m.Add("a")
	m.Add("b")
	m.Clear()

	if m.Count() != 0 {
		t.Fatalf("expected empty set, got %d", m.Count())
	}
	if *published != 3 {
		t.Fatalf("expected 3 publishes, got %d", *published)
	}
}

func TestCorruptStorageReadsAsEmpty(t *testing.T) {
	store := localstore.NewMemStore()
	if err := store.Set(StorageKey, "{definitely not a list"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := NewManager(store, nil, nil)

	if got := m.Get(); len(got) != 0 {
		t.Fatalf("corrupt payload should read as empty, got %v", got)
	}
	if !m.Add("fresh") {
		t.Fatal("add after corruption should insert")
	}
	if !m.Is("fresh") {
		t.Fatal("store should recover after a fresh write")
	}
}

func TestGetPreservesInsertionOrder(t *testing.T) {
	m, _, _ := newManager(t)

	m.Add("c")
	m.Add("a")
	m.Add("b")

	got := m.Get()
	if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("expected insertion order [c a b], got %v", got)
	}
}

func TestStatePersistsAcrossManagers(t *testing.T) {
	store := localstore.NewMemStore()
	NewManager(store, nil, nil).Add("a1")

	m2 := NewManager(store, nil, nil)
	if !m2.Is("a1") {
		t.Fatal("second manager over the same store should see a1")
	}
}
