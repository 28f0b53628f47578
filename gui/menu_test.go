package gui

import (
	"errors"
	"io"
	"testing"

	"github.com/df-mc/dragonfly/server/event"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/item/inventory"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/google/uuid"
	"log/slog"
)

type fakeRegistry struct {
	subscribed   []any
	unsubscribed []any
}

func (r *fakeRegistry) Subscribe(l any, _ string) { r.subscribed = append(r.subscribed, l) }
func (r *fakeRegistry) UnsubscribeAll(l any)      { r.unsubscribed = append(r.unsubscribed, l) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testMenu(t *testing.T, rows int, online func(uuid.UUID) bool) *Menu {
	t.Helper()
	m, err := NewMenu(MenuConfig{
		Title:  "Test Menu",
		Rows:   rows,
		Bus:    &fakeRegistry{},
		Owner:  "test-plugin",
		Online: online,
		Log:    testLogger(),
	})
	if err != nil {
		t.Fatalf("NewMenu: %v", err)
	}
	return m
}

func TestMenuRowsValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewMenu(MenuConfig{Rows: 7, Log: testLogger()}); err == nil {
		t.Fatal("expected error for 7 rows")
	}
	m, err := NewMenu(MenuConfig{Log: testLogger()})
	if err != nil {
		t.Fatalf("NewMenu with default rows: %v", err)
	}
	if m.Rows() != 1 || m.Size() != SlotsPerRow {
		t.Fatalf("default menu is %d rows / %d slots, want 1 / %d", m.Rows(), m.Size(), SlotsPerRow)
	}
}

func TestMenuAddButton(t *testing.T) {
	t.Parallel()

	m := testMenu(t, 3, nil)
	stack := item.NewStack(item.Diamond{}, 1)

	slot, err := m.AddButton(NewButton(stack, 13, nil))
	if err != nil || slot != 13 {
		t.Fatalf("AddButton = %d, %v, want 13, nil", slot, err)
	}
	got, err := m.Inventory().Item(13)
	if err != nil || !got.Equal(stack) {
		t.Fatalf("inventory slot 13 holds %v (%v), want the button stack", got, err)
	}
	if _, ok := m.Button(13); !ok {
		t.Fatal("Button(13) not found after AddButton")
	}

	if _, err := m.AddButton(NewButton(stack, 13, nil)); !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("duplicate slot returned %v, want ErrSlotOccupied", err)
	}
	if _, err := m.AddButton(NewButton(stack, 27, nil)); !errors.Is(err, ErrSlotRange) {
		t.Fatalf("slot 27 in a 3-row menu returned %v, want ErrSlotRange", err)
	}
}

func TestMenuAutoAssignsUnslotted(t *testing.T) {
	t.Parallel()

	m := testMenu(t, 1, nil)
	stack := item.NewStack(item.Paper{}, 1)

	first, err := m.AddButton(NewUnslottedButton(stack, nil))
	if err != nil || first != 0 {
		t.Fatalf("first unslotted button got slot %d (%v), want 0", first, err)
	}
	if _, err := m.AddButton(NewButton(stack, 1, nil)); err != nil {
		t.Fatalf("AddButton: %v", err)
	}
	second, err := m.AddButton(NewUnslottedButton(stack, nil))
	if err != nil || second != 2 {
		t.Fatalf("second unslotted button got slot %d (%v), want 2", second, err)
	}
}

func TestMenuFull(t *testing.T) {
	t.Parallel()

	m := testMenu(t, 1, nil)
	stack := item.NewStack(item.Paper{}, 1)
	for i := 0; i < m.Size(); i++ {
		if _, err := m.AddButton(NewUnslottedButton(stack, nil)); err != nil {
			t.Fatalf("AddButton %d: %v", i, err)
		}
	}
	if _, err := m.AddButton(NewUnslottedButton(stack, nil)); !errors.Is(err, ErrMenuFull) {
		t.Fatalf("full menu returned %v, want ErrMenuFull", err)
	}
}

func TestMenuViewers(t *testing.T) {
	t.Parallel()

	online := map[uuid.UUID]bool{}
	m := testMenu(t, 1, func(id uuid.UUID) bool { return online[id] })

	watching, gone := uuid.New(), uuid.New()
	online[watching] = true

	if ok, err := m.ViewerSet().Add(watching); err != nil || !ok {
		t.Fatalf("adding online viewer = %v, %v, want true, nil", ok, err)
	}
	if ok, _ := m.ViewerSet().Add(gone); ok {
		t.Fatal("offline viewer must be rejected")
	}
	if got := m.Viewers(); len(got) != 1 || got[0] != watching {
		t.Fatalf("Viewers() = %v, want [%s]", got, watching)
	}
}

func TestMenuHandlerCancelsAndRoutes(t *testing.T) {
	t.Parallel()

	m := testMenu(t, 1, nil)
	clicks := 0
	if _, err := m.AddButton(NewButton(item.NewStack(item.Paper{}, 1), 4, func(*player.Player) { clicks++ })); err != nil {
		t.Fatalf("AddButton: %v", err)
	}

	var viewer *player.Player
	take := event.C[inventory.Holder](viewer)
	m.HandleTake(take, 4, item.Stack{})
	if !take.Cancelled() {
		t.Fatal("HandleTake must cancel the transfer")
	}
	if clicks != 1 {
		t.Fatalf("button action ran %d times, want 1", clicks)
	}

	place := event.C[inventory.Holder](viewer)
	m.HandlePlace(place, 7, item.Stack{})
	if !place.Cancelled() {
		t.Fatal("HandlePlace must cancel the transfer")
	}
	if clicks != 1 {
		t.Fatal("a click on an empty slot must not dispatch")
	}

	drop := event.C[inventory.Holder](nil)
	m.HandleDrop(drop, 4, item.Stack{})
	if !drop.Cancelled() {
		t.Fatal("HandleDrop must cancel the transfer")
	}
	if clicks != 1 {
		t.Fatal("a non-player holder must not dispatch")
	}
}

func TestMenuClose(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{}
	m, err := NewMenu(MenuConfig{Rows: 1, Bus: reg, Owner: "test-plugin", Log: testLogger()})
	if err != nil {
		t.Fatalf("NewMenu: %v", err)
	}
	m.ViewerSet().Add(uuid.New())
	m.AddButton(NewButton(item.NewStack(item.Paper{}, 1), 0, nil))

	m.Close()
	if len(m.Viewers()) != 0 {
		t.Fatal("Close left viewers behind")
	}
	if _, ok := m.Button(0); ok {
		t.Fatal("Close left buttons behind")
	}
	if len(reg.unsubscribed) != 1 {
		t.Fatalf("Close unsubscribed %d listeners, want 1", len(reg.unsubscribed))
	}
}
