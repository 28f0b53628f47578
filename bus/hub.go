package bus

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/df-mc/dragonfly/server/item/inventory"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"log/slog"
)

type registration[T any] struct {
	owner    string
	listener Listener
	handler  T
}

type regList[T any] struct {
	regs []registration[T]
}

func (l *regList[T]) add(owner string, lis Listener, handler T) {
	l.regs = append(l.regs, registration[T]{owner: owner, listener: lis, handler: handler})
}

func (l *regList[T]) contains(lis Listener) bool {
	for _, reg := range l.regs {
		if reg.listener == lis {
			return true
		}
	}
	return false
}

func (l *regList[T]) removeListener(lis Listener) {
	if len(l.regs) == 0 {
		return
	}
	regs := l.regs[:0]
	for _, reg := range l.regs {
		if reg.listener == lis {
			continue
		}
		regs = append(regs, reg)
	}
	l.regs = regs
}

func (l *regList[T]) removeOwner(owner string) {
	if len(l.regs) == 0 {
		return
	}
	regs := l.regs[:0]
	for _, reg := range l.regs {
		if reg.owner == owner {
			continue
		}
		regs = append(regs, reg)
	}
	l.regs = regs
}

func (l *regList[T]) snapshot() []registration[T] {
	if len(l.regs) == 0 {
		return nil
	}
	out := make([]registration[T], len(l.regs))
	copy(out, l.regs)
	return out
}

// Hub is the concrete Registry of this package. It keeps one registration
// list per handler taxonomy and publishes copy-on-write chain snapshots so
// dispatch never blocks on, or observes a partial state of, a concurrent
// (un)subscription. The host installs the fan-out handlers returned by
// PlayerHandler, WorldHandler and InventoryHandler; everything the host feeds
// them is forwarded to every subscribed listener.
type Hub struct {
	mu  sync.Mutex
	log *slog.Logger

	players     regList[player.Handler]
	worlds      regList[world.Handler]
	inventories regList[inventory.Handler]

	playerChain    atomic.Value // []registration[player.Handler]
	worldChain     atomic.Value // []registration[world.Handler]
	inventoryChain atomic.Value // []registration[inventory.Handler]
}

// NewHub creates a Hub logging through log, or slog.Default() if log is nil.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	hub := &Hub{log: log.With("subsystem", "bus")}
	hub.playerChain.Store([]registration[player.Handler]{})
	hub.worldChain.Store([]registration[world.Handler]{})
	hub.inventoryChain.Store([]registration[inventory.Handler]{})
	return hub
}

// Subscribe attaches l to every dispatch chain whose handler interface it
// implements. Listeners already present in a chain are not added twice. A
// listener that implements none of the handler taxonomies is ignored.
func (h *Hub) Subscribe(l Listener, owner string) {
	if l == nil {
		return
	}
	h.mu.Lock()
	matched := false
	if handler, ok := l.(player.Handler); ok {
		if !h.players.contains(l) {
			h.players.add(owner, l, handler)
		}
		matched = true
	}
	if handler, ok := l.(world.Handler); ok {
		if !h.worlds.contains(l) {
			h.worlds.add(owner, l, handler)
		}
		matched = true
	}
	if handler, ok := l.(inventory.Handler); ok {
		if !h.inventories.contains(l) {
			h.inventories.add(owner, l, handler)
		}
		matched = true
	}
	h.publish()
	h.mu.Unlock()
	if !matched {
		h.log.Debug("Listener implements no handler interface.", "owner", owner)
	}
}

// UnsubscribeAll detaches l from every dispatch chain. Idempotent.
func (h *Hub) UnsubscribeAll(l Listener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	h.players.removeListener(l)
	h.worlds.removeListener(l)
	h.inventories.removeListener(l)
	h.publish()
	h.mu.Unlock()
}

// RemoveOwner detaches every listener that was subscribed under owner.
func (h *Hub) RemoveOwner(owner string) {
	h.mu.Lock()
	h.players.removeOwner(owner)
	h.worlds.removeOwner(owner)
	h.inventories.removeOwner(owner)
	h.publish()
	h.mu.Unlock()
}

// publish refreshes the chain snapshots. Callers must hold h.mu.
func (h *Hub) publish() {
	h.playerChain.Store(h.players.snapshot())
	h.worldChain.Store(h.worlds.snapshot())
	h.inventoryChain.Store(h.inventories.snapshot())
}

func (h *Hub) playerRegs() []registration[player.Handler] {
	if v := h.playerChain.Load(); v != nil {
		return v.([]registration[player.Handler])
	}
	return nil
}

func (h *Hub) worldRegs() []registration[world.Handler] {
	if v := h.worldChain.Load(); v != nil {
		return v.([]registration[world.Handler])
	}
	return nil
}

func (h *Hub) inventoryRegs() []registration[inventory.Handler] {
	if v := h.inventoryChain.Load(); v != nil {
		return v.([]registration[inventory.Handler])
	}
	return nil
}

// invoke runs call, isolating the chain from a panicking listener. The
// panicking listener is logged and removed from every chain so a single
// broken subscriber cannot take the whole dispatch down repeatedly.
func (h *Hub) invoke(owner string, l Listener, call func()) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Listener panic.", "owner", owner, "panic", r, "stack", string(debug.Stack()))
			h.UnsubscribeAll(l)
		}
	}()
	call()
}

var _ Registry = (*Hub)(nil)
