package gui

import (
	"fmt"
	"os"
	"strings"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/pelletier/go-toml"
	"github.com/sandertv/gophertunnel/minecraft/text"
)

// Layout is a menu description loaded from TOML. A minimal layout looks like:
//
//	title = "<aqua>Staff Menu"
//	rows = 3
//
//	[[button]]
//	slot = 11
//	item = "compass"
//	name = "<green>Teleport"
//	lore = ["<grey>Warp to spawn."]
//	command = "spawn"
type Layout struct {
	Title   string         `toml:"title"`
	Rows    int            `toml:"rows"`
	Buttons []ButtonLayout `toml:"button"`
}

// ButtonLayout describes a single button of a Layout.
type ButtonLayout struct {
	// Slot is the grid position of the button. Omitting it leaves the button
	// unslotted, to be auto-assigned by the menu.
	Slot *int `toml:"slot"`
	// Item names the display item, resolved through an ItemResolver.
	Item string `toml:"item"`
	// Name is the custom display name, with Minecraft colour tags.
	Name string `toml:"name"`
	// Lore lines are shown under the name, with colour tags.
	Lore []string `toml:"lore"`
	// Command is passed to the command runner when the button is clicked.
	Command string `toml:"command"`
}

// ParseLayout decodes a TOML layout and validates it.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := toml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode menu layout: %w", err)
	}
	if l.Rows == 0 {
		l.Rows = 1
	}
	if l.Rows < 1 || l.Rows > 6 {
		return Layout{}, fmt.Errorf("menu layout rows must be between 1 and 6, got %d", l.Rows)
	}
	for i, b := range l.Buttons {
		if b.Item == "" {
			return Layout{}, fmt.Errorf("menu layout button %d has no item", i)
		}
		if b.Slot != nil && (*b.Slot < 0 || *b.Slot >= l.Rows*SlotsPerRow) {
			return Layout{}, fmt.Errorf("menu layout button %d: %w: %d", i, ErrSlotRange, *b.Slot)
		}
	}
	return l, nil
}

// LoadLayout reads and parses a TOML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read menu layout: %w", err)
	}
	return ParseLayout(data)
}

// ItemResolver maps a layout item name to a display item.
type ItemResolver func(name string) (world.Item, bool)

// DefaultItems resolves a small set of common display items by their lower
// case names. Hosts with custom items supply their own resolver.
func DefaultItems(name string) (world.Item, bool) {
	switch strings.ToLower(name) {
	case "arrow":
		return item.Arrow{}, true
	case "bone":
		return item.Bone{}, true
	case "book":
		return item.Book{}, true
	case "clock":
		return item.Clock{}, true
	case "compass":
		return item.Compass{}, true
	case "diamond":
		return item.Diamond{}, true
	case "emerald":
		return item.Emerald{}, true
	case "feather":
		return item.Feather{}, true
	case "paper":
		return item.Paper{}, true
	case "stick":
		return item.Stick{}, true
	}
	return nil, false
}

// Build turns the layout's button descriptions into Buttons. resolve defaults
// to DefaultItems. Buttons with a command dispatch it through run; when run
// is nil those buttons are decorative.
func (l Layout) Build(resolve ItemResolver, run func(p *player.Player, command string)) ([]Button, error) {
	if resolve == nil {
		resolve = DefaultItems
	}
	buttons := make([]Button, 0, len(l.Buttons))
	for i, b := range l.Buttons {
		it, ok := resolve(b.Item)
		if !ok {
			return nil, fmt.Errorf("menu layout button %d: unknown item %q", i, b.Item)
		}
		stack := item.NewStack(it, 1)
		if b.Name != "" {
			stack = stack.WithCustomName(text.Colourf("%s", b.Name))
		}
		if len(b.Lore) > 0 {
			lore := make([]string, len(b.Lore))
			for j, line := range b.Lore {
				lore[j] = text.Colourf("%s", line)
			}
			stack = stack.WithLore(lore...)
		}
		var action func(p *player.Player)
		if command := b.Command; command != "" && run != nil {
			action = func(p *player.Player) {
				run(p, command)
			}
		}
		slot := SlotUnassigned
		if b.Slot != nil {
			slot = *b.Slot
		}
		buttons = append(buttons, NewButton(stack, slot, action))
	}
	return buttons, nil
}

// Menu builds a complete menu from the layout. The layout's title and rows
// take precedence over those in conf.
func (l Layout) Menu(conf MenuConfig, resolve ItemResolver, run func(p *player.Player, command string)) (*Menu, error) {
	buttons, err := l.Build(resolve, run)
	if err != nil {
		return nil, err
	}
	if l.Title != "" {
		conf.Title = text.Colourf("%s", l.Title)
	}
	conf.Rows = l.Rows
	m, err := NewMenu(conf)
	if err != nil {
		return nil, err
	}
	for _, b := range buttons {
		if _, err := m.AddButton(b); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}
