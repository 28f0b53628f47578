// Package adapter provides set collections whose lifecycle is tied to a host
// event bus. An adapter owns its storage, filters insertions through a
// per-variant validity predicate and registers a listener with the bus while
// enabled, so variants can keep their contents correct as the world changes
// (removing players that disconnect, regions whose world closes, and so on).
package adapter

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/dm-vev/adamant-utils/bus"
)

// ErrNotEnabled is returned when a mutating operation is attempted on an
// adapter that has not been enabled and is not configured for lazy enabling.
// This signals a programmer error in setup code; callers are expected to call
// Enable before use, never to retry around this error.
var ErrNotEnabled = errors.New("adapter not enabled")

// Options configures a Set.
type Options[E comparable] struct {
	// Bus is the registry the adapter's Listener is subscribed to while the
	// adapter is enabled. It may be nil, in which case only the lifecycle
	// gate applies.
	Bus bus.Registry
	// Owner tags the subscription with the owning plugin's name.
	Owner string
	// Listener is the handler object registered on Enable and removed on
	// Disable, usually the concrete variant wrapping the Set. It may be nil.
	Listener bus.Listener
	// Valid is the validity predicate applied by Add. It must be pure. A nil
	// predicate accepts every element.
	Valid func(E) bool
	// Lazy causes the first mutation attempt on a disabled adapter to enable
	// it instead of failing.
	Lazy bool
	// Name identifies the concrete adapter in error messages.
	Name string
}

// Set is a mutable set of E guarded by an enable/disable lifecycle. It is
// constructed disabled and must be enabled, or configured with Options.Lazy,
// before the first mutation. Disable clears the set and unsubscribes the
// listener; the Set must not be reused afterwards.
//
// Set is not synchronised. It is meant to be driven from the host's dispatch
// goroutine; the only concurrency concern is reentrant mutation from event
// handlers while a caller iterates, which Snapshot and All exist to absorb.
type Set[E comparable] struct {
	bus      bus.Registry
	owner    string
	listener bus.Listener
	valid    func(E) bool
	name     string

	lazy    bool
	enabled bool
	elems   map[E]struct{}
}

// New creates a disabled Set from opts.
func New[E comparable](opts Options[E]) *Set[E] {
	name := opts.Name
	if name == "" {
		name = "set adapter"
	}
	return &Set[E]{
		bus:      opts.Bus,
		owner:    opts.Owner,
		listener: opts.Listener,
		valid:    opts.Valid,
		name:     name,
		lazy:     opts.Lazy,
		elems:    make(map[E]struct{}),
	}
}

// Enable subscribes the adapter's listener with the bus and opens the set for
// mutation. Calling Enable on an enabled adapter is a no-op, so the listener
// is registered exactly once.
func (s *Set[E]) Enable() {
	if s.enabled {
		return
	}
	if s.bus != nil && s.listener != nil {
		s.bus.Subscribe(s.listener, s.owner)
	}
	s.enabled = true
}

// Disable empties the set and unsubscribes the listener from the bus
// entirely. The enabled flag is dropped before the elements are, so any
// mutation triggered reentrantly during teardown fails the gate instead of
// resurrecting elements. Idempotent; the adapter is retired afterwards and
// must not be enabled again.
func (s *Set[E]) Disable() {
	if !s.enabled {
		return
	}
	s.enabled = false
	s.elems = make(map[E]struct{})
	if s.bus != nil && s.listener != nil {
		s.bus.UnsubscribeAll(s.listener)
	}
}

// Enabled reports whether the adapter currently accepts mutation.
func (s *Set[E]) Enabled() bool {
	return s.enabled
}

func (s *Set[E]) assertEnabled() error {
	if s.enabled {
		return nil
	}
	if s.lazy {
		s.Enable()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotEnabled, s.name)
}

// Valid reports whether e passes the adapter's validity predicate.
func (s *Set[E]) Valid(e E) bool {
	return s.valid == nil || s.valid(e)
}

// Add inserts e if it passes the validity predicate and reports whether it
// did. A false return with a nil error is the expected outcome for an invalid
// element, not a failure. The error is non-nil only when the adapter is
// disabled and not lazy.
func (s *Set[E]) Add(e E) (bool, error) {
	if err := s.assertEnabled(); err != nil {
		return false, err
	}
	if !s.Valid(e) {
		return false, nil
	}
	s.elems[e] = struct{}{}
	return true, nil
}

// ForceAdd inserts e without consulting the validity predicate. It reports
// false only if e was already present.
func (s *Set[E]) ForceAdd(e E) (bool, error) {
	if err := s.assertEnabled(); err != nil {
		return false, err
	}
	if _, ok := s.elems[e]; ok {
		return false, nil
	}
	s.elems[e] = struct{}{}
	return true, nil
}

// AddAll applies Add to each element of seq and returns how many were
// accepted. Elements are inserted individually; a rejection does not roll
// back earlier insertions.
func (s *Set[E]) AddAll(seq iter.Seq[E]) (int, error) {
	if err := s.assertEnabled(); err != nil {
		return 0, err
	}
	accepted := 0
	for e := range seq {
		if ok, err := s.Add(e); err != nil {
			return accepted, err
		} else if ok {
			accepted++
		}
	}
	return accepted, nil
}

// MergeFrom inserts every element of other into s, subject to the validity
// predicate of s, not that of other. It returns how many elements were
// accepted.
func (s *Set[E]) MergeFrom(other *Set[E]) (int, error) {
	if err := s.assertEnabled(); err != nil {
		return 0, err
	}
	if other == nil {
		return 0, nil
	}
	return s.AddAll(slices.Values(other.Snapshot()))
}

// Remove deletes e and reports whether it was present. Not gated.
func (s *Set[E]) Remove(e E) bool {
	if _, ok := s.elems[e]; !ok {
		return false
	}
	delete(s.elems, e)
	return true
}

// Contains reports whether e is a member.
func (s *Set[E]) Contains(e E) bool {
	_, ok := s.elems[e]
	return ok
}

// Len returns the number of elements.
func (s *Set[E]) Len() int {
	return len(s.elems)
}

// Clear removes all elements without touching the lifecycle state.
func (s *Set[E]) Clear() {
	clear(s.elems)
}

// Snapshot returns a point-in-time copy of the elements, in no particular
// order. It is safe to iterate while the live set is mutated, which tends to
// happen unexpectedly from the events the adapter listens to.
func (s *Set[E]) Snapshot() []E {
	return slices.Collect(maps.Keys(s.elems))
}

// All iterates over a snapshot of the elements, so reentrant mutation during
// iteration does not affect the sequence.
func (s *Set[E]) All() iter.Seq[E] {
	return slices.Values(s.Snapshot())
}
