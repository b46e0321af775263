package object

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Event is what a handler receives when a signal fires.
type Event struct {
	Sender   *Object
	Receiver *Object
	Signal   int
	Args     []any
}

type Handler func(Event)

// Connection is a sender→receiver edge for one signal. Both ends name
// registries rather than objects, so when a swap relocates a registry every
// edge it holds follows without being rewritten.
type Connection struct {
	g        *Graph
	sender   *registry
	receiver atomic.Pointer[registry]
	signal   int
	handler  Handler
}

func (c *Connection) Signal() int {
	return c.signal
}

// Sender is the object currently holding the sending side of c.
func (c *Connection) Sender() *Object {
	return c.sender.owner.Load()
}

// Receiver is the object currently holding the receiving side of c, or nil
// once c is disconnected.
func (c *Connection) Receiver() *Object {
	r := c.receiver.Load()
	if r == nil {
		return nil
	}
	return r.owner.Load()
}

func (c *Connection) Connected() bool {
	return c.receiver.Load() != nil
}

// Connect adds an edge from sender's signal to receiver. signal may be
// AllSignals.
func (g *Graph) Connect(sender *Object, signal int, receiver *Object, handler Handler) (*Connection, error) {
	if sender.g != g || receiver.g != g {
		return nil, ErrForeignObject
	}
	if signal < AllSignals || signal >= sender.meta.SignalCount() {
		return nil, fmt.Errorf("connect %s[%d]: %w", sender.meta.Name(), signal, ErrInvalidSignal)
	}
	if handler == nil {
		handler = func(Event) {}
	}

	u := g.pool.LockBoth(sender.id, receiver.id)
	defer u.Unlock()
	if sender.IsDestroyed() || receiver.IsDestroyed() {
		return nil, ErrDestroyed
	}
	if sender.reg == nil {
		sender.reg = newRegistry(sender)
	}
	if receiver.reg == nil {
		receiver.reg = newRegistry(receiver)
	}

	c := &Connection{
		g:       g,
		sender:  sender.reg,
		signal:  signal,
		handler: handler,
	}
	c.receiver.Store(receiver.reg)
	sender.reg.add(c)
	receiver.reg.incoming = append(receiver.reg.incoming, c)
	return c, nil
}

// Disconnect removes c. It reports false when c was already disconnected.
func (c *Connection) Disconnect() bool {
	pool := c.g.pool
	for {
		m := c.g.lockRegistry(c.sender)
		so := c.sender.owner.Load()
		rr := c.receiver.Load()
		if rr == nil {
			m.Unlock()
			return false
		}
		ro := rr.owner.Load()
		dropped := pool.Relock(so.id, ro.id)
		if (dropped && c.sender.owner.Load() != so) || rr.owner.Load() != ro {
			// a swap moved one side while we waited
			pool.Unlock(so.id, ro.id)
			m.Unlock()
			continue
		}
		ok := c.receiver.CompareAndSwap(rr, nil)
		if ok {
			rr.removeIncoming(c)
			c.sender.markDisconnected()
		}
		pool.Unlock(so.id, ro.id)
		m.Unlock()
		return ok
	}
}

// lockRegistry locks the stripe of whichever object currently owns r.
func (g *Graph) lockRegistry(r *registry) *sync.Mutex {
	for {
		o := r.owner.Load()
		m := g.pool.LockFor(o.id)
		m.Lock()
		if r.owner.Load() == o {
			return m
		}
		m.Unlock()
	}
}

// Emit activates signal on o and returns how many handlers ran. The
// registry is pinned for the whole activation, so a concurrent swap makes the
// activation see either the old or the new connection set, never a mix.
func (o *Object) Emit(signal int, args ...any) int {
	if signal < 0 || signal >= o.meta.SignalCount() {
		return 0
	}
	if o.SignalsBlocked() {
		return 0
	}

	m := o.g.pool.LockFor(o.id)
	m.Lock()
	it := o.reg.beginIteration(signal)
	m.Unlock()
	if it.reg == nil {
		return 0
	}

	n := 0
	sender := it.reg.owner.Load()
	for _, list := range [2][]*Connection{it.all, it.sig} {
		for _, c := range list {
			rr := c.receiver.Load()
			if rr == nil {
				continue
			}
			c.handler(Event{
				Sender:   sender,
				Receiver: rr.owner.Load(),
				Signal:   signal,
				Args:     args,
			})
			n++
		}
	}

	m = o.g.lockRegistry(it.reg)
	it.reg.endIteration()
	m.Unlock()
	return n
}

// Receivers lists the live connections leaving o on signal, catch-all
// connections included.
func (o *Object) Receivers(signal int) []*Connection {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	defer m.Unlock()
	if o.reg == nil {
		return nil
	}
	var out []*Connection
	for _, c := range o.reg.outgoing() {
		if c.signal == signal || c.signal == AllSignals {
			out = append(out, c)
		}
	}
	return out
}

// Connections lists every live connection leaving o.
func (o *Object) Connections() []*Connection {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	defer m.Unlock()
	return o.reg.outgoing()
}

// Senders lists the live connections arriving at o.
func (o *Object) Senders() []*Connection {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	defer m.Unlock()
	if o.reg == nil {
		return nil
	}
	out := make([]*Connection, 0, len(o.reg.incoming))
	for _, c := range o.reg.incoming {
		if c.receiver.Load() != nil {
			out = append(out, c)
		}
	}
	return out
}

// disconnectAll drops every edge touching o. If an activation is walking o's
// registry it is orphaned and torn down when the activation ends.
func (o *Object) disconnectAll() {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	r := o.reg
	if r == nil {
		m.Unlock()
		return
	}
	edges := append(r.outgoing(), r.incoming...)
	m.Unlock()

	for _, c := range edges {
		c.Disconnect()
	}

	m = o.g.lockRegistry(r)
	if r.inUse > 0 {
		r.orphaned = true
	} else {
		r.teardown()
	}
	m.Unlock()
}
