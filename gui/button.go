// Package gui provides clickable button descriptors for inventory-grid menus
// and a menu type that binds them to a dragonfly inventory. Opening a menu on
// a client remains the host's concern; this package owns the button grid and
// click dispatch only.
package gui

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
)

// SlotUnassigned marks a button that has not been bound to a menu slot yet.
// Menus assign such buttons to the first free slot when they are added.
const SlotUnassigned = -1

// Clickable is the capability every button variant provides: responding to a
// click by a player.
type Clickable interface {
	ClickBy(p *player.Player)
}

// Button binds a display item and an optional slot position to a click
// action. The zero Button is inert; construct buttons through NewButton or
// NewUnslottedButton.
type Button struct {
	stack  item.Stack
	slot   int
	action func(p *player.Player)
}

// NewButton creates a button shown as stack at the given menu slot. action
// may be nil for a purely decorative button.
func NewButton(stack item.Stack, slot int, action func(p *player.Player)) Button {
	return Button{stack: stack, slot: slot, action: action}
}

// NewUnslottedButton creates a button without a slot assignment.
func NewUnslottedButton(stack item.Stack, action func(p *player.Player)) Button {
	return Button{stack: stack, slot: SlotUnassigned, action: action}
}

// Stack returns the display item of the button.
func (b Button) Stack() item.Stack {
	return b.stack
}

// Slot returns the slot the button is associated with, or SlotUnassigned.
func (b Button) Slot() int {
	return b.slot
}

// ClickBy runs the button's action for p.
func (b Button) ClickBy(p *player.Player) {
	if b.action != nil {
		b.action(p)
	}
}

var _ Clickable = Button{}
