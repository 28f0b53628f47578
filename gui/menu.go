package gui

import (
	"errors"
	"fmt"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/item/inventory"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/google/uuid"
	"log/slog"

	"github.com/dm-vev/adamant-utils/adapter"
	"github.com/dm-vev/adamant-utils/bus"
)

// SlotsPerRow is the width of a chest menu grid.
const SlotsPerRow = 9

var (
	// ErrSlotOccupied is returned when two buttons claim the same slot.
	ErrSlotOccupied = errors.New("menu slot already occupied")
	// ErrSlotRange is returned for a slot outside the menu grid.
	ErrSlotRange = errors.New("menu slot out of range")
	// ErrMenuFull is returned when no free slot is left for an unslotted button.
	ErrMenuFull = errors.New("menu has no free slot")
)

// MenuConfig configures a Menu.
type MenuConfig struct {
	// Title is the display name of the menu.
	Title string
	// Rows is the number of 9-slot rows, between 1 and 6. Defaults to 1.
	Rows int
	// Bus, when non-nil, receives the viewer set's subscription so viewers
	// that quit the server are dropped automatically.
	Bus bus.Registry
	// Owner tags the viewer subscription with the owning plugin's name.
	Owner string
	// Online is the viewer validity check, usually the server's player
	// lookup. A nil check accepts every viewer.
	Online func(uuid.UUID) bool
	// Log is used for diagnostics. Defaults to slog.Default().
	Log *slog.Logger
}

// Menu is a grid of buttons backed by an inventory. The menu installs itself
// as the inventory's handler: take, place and drop transfers are cancelled
// and routed to the button occupying the slot, so the inventory contents act
// purely as a display surface.
type Menu struct {
	title   string
	rows    int
	inv     *inventory.Inventory
	buttons map[int]Button
	viewers *adapter.Players
	log     *slog.Logger
}

// NewMenu creates an empty menu and enables its viewer set.
func NewMenu(conf MenuConfig) (*Menu, error) {
	rows := conf.Rows
	if rows == 0 {
		rows = 1
	}
	if rows < 1 || rows > 6 {
		return nil, fmt.Errorf("menu rows must be between 1 and 6, got %d", conf.Rows)
	}
	log := conf.Log
	if log == nil {
		log = slog.Default()
	}
	m := &Menu{
		title:   conf.Title,
		rows:    rows,
		buttons: make(map[int]Button),
		viewers: adapter.NewPlayers(conf.Bus, conf.Owner, conf.Online),
		log:     log.With("subsystem", "gui", "menu", conf.Title),
	}
	m.inv = inventory.New(rows*SlotsPerRow, func(slot int, _, after item.Stack) {
		m.log.Debug("Menu slot changed.", "slot", slot, "empty", after.Empty())
	})
	m.inv.Handle(m)
	m.viewers.Enable()
	return m, nil
}

// Title returns the display name of the menu.
func (m *Menu) Title() string {
	return m.title
}

// Rows returns the number of rows in the menu grid.
func (m *Menu) Rows() int {
	return m.rows
}

// Size returns the number of slots in the menu grid.
func (m *Menu) Size() int {
	return m.rows * SlotsPerRow
}

// Inventory returns the inventory displaying the menu. The host is expected
// to present it to viewers; the menu keeps its contents in sync with the
// buttons added to it.
func (m *Menu) Inventory() *inventory.Inventory {
	return m.inv
}

// AddButton places b in the menu. Unslotted buttons take the first free slot.
// The returned int is the slot the button ended up in.
func (m *Menu) AddButton(b Button) (int, error) {
	slot := b.Slot()
	if slot == SlotUnassigned {
		free, ok := m.freeSlot()
		if !ok {
			return 0, ErrMenuFull
		}
		slot = free
	}
	if slot < 0 || slot >= m.Size() {
		return 0, fmt.Errorf("%w: %d", ErrSlotRange, slot)
	}
	if _, ok := m.buttons[slot]; ok {
		return 0, fmt.Errorf("%w: %d", ErrSlotOccupied, slot)
	}
	m.buttons[slot] = b
	if err := m.inv.SetItem(slot, b.Stack()); err != nil {
		delete(m.buttons, slot)
		return 0, fmt.Errorf("place button stack: %w", err)
	}
	return slot, nil
}

// Button returns the button at slot, if any.
func (m *Menu) Button(slot int) (Button, bool) {
	b, ok := m.buttons[slot]
	return b, ok
}

func (m *Menu) freeSlot() (int, bool) {
	for slot := 0; slot < m.Size(); slot++ {
		if _, ok := m.buttons[slot]; !ok {
			return slot, true
		}
	}
	return 0, false
}

// AddViewer records p as currently viewing the menu, subject to the online
// check of the viewer set.
func (m *Menu) AddViewer(p *player.Player) (bool, error) {
	return m.viewers.AddPlayer(p)
}

// RemoveViewer removes p from the viewer set.
func (m *Menu) RemoveViewer(p *player.Player) bool {
	return m.viewers.Remove(p.UUID())
}

// Viewers returns a snapshot of the UUIDs currently viewing the menu.
func (m *Menu) Viewers() []uuid.UUID {
	return m.viewers.Snapshot()
}

// ViewerSet exposes the underlying viewer adapter for callers that track
// viewers by UUID rather than by player.
func (m *Menu) ViewerSet() *adapter.Players {
	return m.viewers
}

// Close retires the menu's viewer set and forgets all buttons.
func (m *Menu) Close() {
	m.viewers.Disable()
	clear(m.buttons)
}

// HandleTake cancels the item transfer and dispatches the click to the button
// at the slot.
func (m *Menu) HandleTake(ctx *inventory.Context, slot int, _ item.Stack) {
	ctx.Cancel()
	m.click(ctx, slot)
}

// HandlePlace cancels attempts to put items into the menu grid.
func (m *Menu) HandlePlace(ctx *inventory.Context, slot int, _ item.Stack) {
	ctx.Cancel()
	m.click(ctx, slot)
}

// HandleDrop cancels attempts to drop items out of the menu grid.
func (m *Menu) HandleDrop(ctx *inventory.Context, slot int, _ item.Stack) {
	ctx.Cancel()
	m.click(ctx, slot)
}

func (m *Menu) click(ctx *inventory.Context, slot int) {
	p, ok := ctx.Val().(*player.Player)
	if !ok {
		return
	}
	b, ok := m.buttons[slot]
	if !ok {
		return
	}
	m.log.Debug("Button clicked.", "slot", slot)
	b.ClickBy(p)
}

var _ inventory.Handler = (*Menu)(nil)
