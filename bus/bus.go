// Package bus implements an owner-tagged registration service for the event
// handler taxonomies of the dragonfly server. Handler objects subscribe once
// and receive every matching event the host feeds into the hub's fan-out
// chains; they can later be removed individually or together with everything
// else their owner registered.
package bus

// Listener is a handler object registered with a Registry. A Listener may
// implement any combination of player.Handler, world.Handler and
// inventory.Handler; Subscribe inspects the value and attaches it to each
// matching dispatch chain. Listeners are compared by interface identity, so
// they should be pointers or small comparable values.
type Listener = any

// Registry is the subscription surface consumed by components that tie their
// lifecycle to host events, such as the set adapters in package adapter. A
// *Hub satisfies it, as does any adapter around a host's own event API.
type Registry interface {
	// Subscribe registers the listener on behalf of the named owner. Calling
	// Subscribe again with the same listener is a no-op.
	Subscribe(l Listener, owner string)
	// UnsubscribeAll removes the listener from every dispatch chain it was
	// attached to. It is a no-op for listeners that were never subscribed.
	UnsubscribeAll(l Listener)
}
