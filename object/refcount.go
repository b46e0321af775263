package object

import "sync/atomic"

// RefCell counts the shared and weak handles held on one object. It is
// created lazily by the first handle and stays with the object's identity
// for its whole life, across swaps.
type RefCell struct {
	object *Object
	strong atomic.Int32
	weak   atomic.Int32
	dead   atomic.Bool
}

func (c *RefCell) Object() *Object {
	return c.object
}

func (c *RefCell) Counts() (strong, weak int) {
	return int(c.strong.Load()), int(c.weak.Load())
}

// acquireCell returns o's cell, creating it if needed. The stripe keeps the
// lookup consistent with a concurrent swap moving the private state.
func (o *Object) acquireCell() *RefCell {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	defer m.Unlock()
	return o.acquireCellLocked()
}

// acquireCellLocked is acquireCell for callers already holding o's stripe.
func (o *Object) acquireCellLocked() *RefCell {
	d := o.state()
	if c := d.refCell.Load(); c != nil {
		return c
	}
	c := &RefCell{object: o}
	if o.IsDestroyed() {
		c.dead.Store(true)
	}
	d.refCell.Store(c)
	return c
}

func (o *Object) cell() *RefCell {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	defer m.Unlock()
	return o.state().refCell.Load()
}

// Shared is a strong handle on an object held outside its owner.
type Shared struct {
	cell     *RefCell
	released atomic.Bool
}

func NewShared(o *Object) *Shared {
	c := o.acquireCell()
	c.strong.Add(1)
	return &Shared{cell: c}
}

func (s *Shared) Get() *Object {
	if s.released.Load() || s.cell.dead.Load() {
		return nil
	}
	return s.cell.object
}

func (s *Shared) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.cell.strong.Add(-1)
	}
}

// Weak observes an object without keeping it; Get returns nil once the object
// is destroyed.
type Weak struct {
	cell     *RefCell
	released atomic.Bool
}

func NewWeak(o *Object) *Weak {
	c := o.acquireCell()
	c.weak.Add(1)
	return &Weak{cell: c}
}

func (w *Weak) Get() *Object {
	if w.released.Load() || w.cell.dead.Load() {
		return nil
	}
	return w.cell.object
}

func (w *Weak) Release() {
	if w.released.CompareAndSwap(false, true) {
		w.cell.weak.Add(-1)
	}
}

// RefCountOf reports o's handle counts. ok is false when no handle was ever
// taken.
func RefCountOf(o *Object) (strong, weak int, ok bool) {
	c := o.cell()
	if c == nil {
		return 0, 0, false
	}
	strong, weak = c.Counts()
	return strong, weak, true
}

// CheckSwappable reports whether nobody but the direct owner references o.
func (g *Graph) CheckSwappable(o *Object) bool {
	if g.guard == GuardProbe {
		return probeSwappable(o)
	}
	return inspectSwappable(o)
}

func inspectSwappable(o *Object) bool {
	c := o.cell()
	if c == nil {
		return true
	}
	strong, weak := c.Counts()
	return strong == 0 && weak == 0
}

// probeSwappable holds o's stripe for the whole probe so that concurrent
// validations of o never count each other's probe.
func probeSwappable(o *Object) bool {
	m := o.g.pool.LockFor(o.id)
	m.Lock()
	defer m.Unlock()
	c := o.acquireCellLocked()
	c.weak.Add(1)
	strong, weak := c.Counts()
	c.weak.Add(-1)
	return strong == 0 && weak == 1
}
