package object

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Object is a stable identity. Everything mutable about it lives in its
// private state block, which a swap may hand to another object.
type Object struct {
	g    *Graph
	id   uint64
	meta *MetaType

	// d is replaced only while the object's stripe is held. Readers that need
	// d to stay put (connection code) load it under the stripe.
	d atomic.Pointer[privateState]

	// reg is the outgoing/incoming connection registry, guarded by the
	// object's stripe. nil until the object takes part in a connection.
	reg *registry

	destroyed atomic.Bool
}

// privateState is owned by exactly one Object at a time; owner points back at
// it except inside the swap critical section.
type privateState struct {
	owner atomic.Pointer[Object]

	mu           sync.RWMutex
	name         string
	blocked      bool
	properties   map[string]any
	thread       *Thread
	timers       []int
	timerHandler func(TimerEvent)

	// guarded by Graph.tree
	parent   *Object
	children []*Object

	refCell atomic.Pointer[RefCell]
}

func (o *Object) ID() uint64 {
	return o.id
}

func (o *Object) Graph() *Graph {
	return o.g
}

func (o *Object) Meta() *MetaType {
	return o.meta
}

func (o *Object) IsDestroyed() bool {
	return o.destroyed.Load()
}

func (o *Object) state() *privateState {
	return o.d.Load()
}

func (o *Object) Name() string {
	d := o.state()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// SetName renames the object and emits objectNameChanged when the name
// actually changed.
func (o *Object) SetName(name string) {
	d := o.state()
	d.mu.Lock()
	changed := d.name != name
	d.name = name
	d.mu.Unlock()
	if changed {
		o.Emit(SignalObjectNameChanged, name)
	}
}

func (o *Object) SignalsBlocked() bool {
	d := o.state()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.blocked
}

// BlockSignals sets the blocked flag and returns its previous value.
func (o *Object) BlockSignals(block bool) bool {
	d := o.state()
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.blocked
	d.blocked = block
	return prev
}

func (o *Object) Property(key string) (any, bool) {
	d := o.state()
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.properties[key]
	return v, ok
}

// SetProperty stores a dynamic property; a nil value removes it.
func (o *Object) SetProperty(key string, v any) {
	d := o.state()
	d.mu.Lock()
	defer d.mu.Unlock()
	if v == nil {
		delete(d.properties, key)
		return
	}
	d.properties[key] = v
}

func (o *Object) PropertyNames() []string {
	d := o.state()
	d.mu.RLock()
	names := make([]string, 0, len(d.properties))
	for k := range d.properties {
		names = append(names, k)
	}
	d.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Thread is the object's thread affinity; nil means the object may be used
// from anywhere.
func (o *Object) Thread() *Thread {
	d := o.state()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.thread
}

func (o *Object) Parent() *Object {
	o.g.tree.Lock()
	defer o.g.tree.Unlock()
	return o.state().parent
}

func (o *Object) Children() []*Object {
	o.g.tree.Lock()
	defer o.g.tree.Unlock()
	return slices.Clone(o.state().children)
}

// FindChildren returns the descendants named name, depth first.
func (o *Object) FindChildren(name string) []*Object {
	o.g.tree.Lock()
	defer o.g.tree.Unlock()
	var found []*Object
	var walk func(*Object)
	walk = func(n *Object) {
		for _, c := range n.state().children {
			if c.Name() == name {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(o)
	return found
}
