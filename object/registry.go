package object

import (
	"slices"
	"sync/atomic"
)

// registry holds an object's outgoing connections, one list per signal plus a
// catch-all list, and the connections it receives. It is guarded by the
// stripe of its owner. While inUse > 0 disconnected entries only have their
// receiver cleared; they are compacted once the last reader leaves.
type registry struct {
	owner atomic.Pointer[Object]

	lists    [][]*Connection
	all      []*Connection
	incoming []*Connection

	inUse    int
	dirty    bool
	orphaned bool
}

func newRegistry(owner *Object) *registry {
	r := &registry{
		lists: make([][]*Connection, owner.meta.SignalCount()),
	}
	r.owner.Store(owner)
	return r
}

// iteration is a snapshot of the two lists an activation walks.
type iteration struct {
	reg      *registry
	all, sig []*Connection
}

func (r *registry) add(c *Connection) {
	if c.signal == AllSignals {
		r.all = append(r.all, c)
		return
	}
	for len(r.lists) <= c.signal {
		r.lists = append(r.lists, nil)
	}
	r.lists[c.signal] = append(r.lists[c.signal], c)
}

func (r *registry) beginIteration(signal int) iteration {
	if r == nil {
		return iteration{}
	}
	r.inUse++
	it := iteration{reg: r, all: r.all}
	if signal >= 0 && signal < len(r.lists) {
		it.sig = r.lists[signal]
	}
	return it
}

func (r *registry) endIteration() {
	if r == nil {
		return
	}
	r.inUse--
	if r.inUse > 0 {
		return
	}
	if r.orphaned {
		r.teardown()
		return
	}
	if r.dirty {
		r.compact()
	}
}

func (r *registry) compact() {
	dead := func(c *Connection) bool { return c.receiver.Load() == nil }
	r.all = slices.DeleteFunc(r.all, dead)
	for i := range r.lists {
		r.lists[i] = slices.DeleteFunc(r.lists[i], dead)
	}
	r.dirty = false
}

func (r *registry) teardown() {
	r.lists = nil
	r.all = nil
	r.incoming = nil
	r.dirty = false
	r.orphaned = false
}

// markDisconnected records that c's receiver was cleared.
func (r *registry) markDisconnected() {
	r.dirty = true
	if r.inUse == 0 {
		r.compact()
	}
}

func (r *registry) removeIncoming(c *Connection) {
	if i := slices.Index(r.incoming, c); i >= 0 {
		r.incoming = slices.Delete(r.incoming, i, i+1)
	}
}

// outgoing returns every live outgoing connection, catch-all first.
func (r *registry) outgoing() []*Connection {
	if r == nil {
		return nil
	}
	var out []*Connection
	for _, c := range r.all {
		if c.receiver.Load() != nil {
			out = append(out, c)
		}
	}
	for _, l := range r.lists {
		for _, c := range l {
			if c.receiver.Load() != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// relocateRegistries hands a's registry to b and b's to a, with all of their
// bookkeeping, and repoints each registry's owner. Entries are not rewritten:
// connections name registries, not objects, so they follow. Both stripes
// must be held.
func relocateRegistries(a, b *Object) {
	a.reg, b.reg = b.reg, a.reg
	if a.reg != nil {
		a.reg.owner.Store(a)
	}
	if b.reg != nil {
		b.reg.owner.Store(b)
	}
}
