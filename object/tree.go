package object

import (
	"fmt"
	"slices"
)

// SetParent reparents o under parent; a nil parent detaches it.
func (g *Graph) SetParent(o, parent *Object) error {
	if o.g != g || (parent != nil && parent.g != g) {
		return ErrForeignObject
	}
	if o.IsDestroyed() || (parent != nil && parent.IsDestroyed()) {
		return ErrDestroyed
	}
	g.tree.Lock()
	defer g.tree.Unlock()
	for p := parent; p != nil; p = p.state().parent {
		if p == o {
			return fmt.Errorf("set parent of %d to %d: %w", o.id, parent.id, ErrParentCycle)
		}
	}
	g.setParentLocked(o, parent, -1)
	return nil
}

// setParentLocked moves o under parent at index (append when index is out of
// range). g.tree must be held.
func (g *Graph) setParentLocked(o, parent *Object, index int) {
	d := o.state()
	if d.parent == parent {
		return
	}
	if old := d.parent; old != nil {
		od := old.state()
		if i := slices.Index(od.children, o); i >= 0 {
			od.children = slices.Delete(od.children, i, i+1)
		}
	}
	d.parent = parent
	if parent == nil {
		return
	}
	pd := parent.state()
	if index < 0 || index > len(pd.children) {
		pd.children = append(pd.children, o)
		return
	}
	pd.children = slices.Insert(pd.children, index, o)
}

// Destroy tears down o and its whole subtree. Each object emits destroyed,
// parents before children, then loses its timers, its connections and any
// weak handle on it. Objects of another graph are left alone.
func (g *Graph) Destroy(o *Object) {
	if o.g != g {
		return
	}
	g.tree.Lock()
	var doomed []*Object
	var collect func(*Object)
	collect = func(n *Object) {
		if !n.destroyed.CompareAndSwap(false, true) {
			return
		}
		doomed = append(doomed, n)
		d := n.state()
		for _, c := range d.children {
			collect(c)
		}
		d.children = nil
	}
	collect(o)
	if len(doomed) == 0 {
		g.tree.Unlock()
		return
	}
	g.setParentLocked(o, nil, -1)
	for _, n := range doomed {
		n.state().parent = nil
	}
	g.tree.Unlock()

	for _, n := range doomed {
		n.Emit(SignalDestroyed)
		n.killAllTimers()
		n.disconnectAll()
		if c := n.cell(); c != nil {
			c.dead.Store(true)
		}
		g.log.Trace().Uint64("object", n.id).Msg("destroyed")
	}
}

// treePlan records the ownership links of a swap pair so they can be rebuilt
// with the two identities exchanged.
type treePlan struct {
	a, b                 *Object
	parentA, parentB     *Object
	indexA, indexB       int
	childrenA, childrenB []*Object
}

func (p *treePlan) subst(o *Object) *Object {
	switch o {
	case p.a:
		return p.b
	case p.b:
		return p.a
	}
	return o
}

// detach unlinks every child of a and b, then a and b from their parents.
// g.tree must be held.
func (g *Graph) detach(a, b *Object) *treePlan {
	da, db := a.state(), b.state()
	p := &treePlan{
		a:         a,
		b:         b,
		parentA:   da.parent,
		parentB:   db.parent,
		indexA:    -1,
		indexB:    -1,
		childrenA: slices.Clone(da.children),
		childrenB: slices.Clone(db.children),
	}
	if p.parentA != nil {
		p.indexA = slices.Index(p.parentA.state().children, a)
	}
	if p.parentB != nil {
		p.indexB = slices.Index(p.parentB.state().children, b)
	}

	for _, c := range p.childrenA {
		g.setParentLocked(c, nil, -1)
	}
	for _, c := range p.childrenB {
		g.setParentLocked(c, nil, -1)
	}
	g.setParentLocked(a, nil, -1)
	g.setParentLocked(b, nil, -1)
	return p
}

// reattach rebuilds the links so that b sits where a was and a where b was.
// g.tree must be held.
func (g *Graph) reattach(p *treePlan) {
	type place struct {
		o, parent *Object
		index     int
	}
	places := []place{
		{p.b, p.subst(p.parentA), p.indexA},
		{p.a, p.subst(p.parentB), p.indexB},
	}
	if places[0].parent == places[1].parent && places[1].index < places[0].index {
		places[0], places[1] = places[1], places[0]
	}
	for _, pl := range places {
		if pl.parent == p.a || pl.parent == p.b {
			pl.index = -1
		}
		g.setParentLocked(pl.o, pl.parent, pl.index)
	}

	for _, c := range p.childrenA {
		g.setParentLocked(p.subst(c), p.b, -1)
	}
	for _, c := range p.childrenB {
		g.setParentLocked(p.subst(c), p.a, -1)
	}
}
