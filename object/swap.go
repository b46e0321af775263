package object

import (
	"context"
	"errors"
)

type SwapState int

const (
	StateIdle SwapState = iota
	StateValidating
	StateDetached
	StateLocked
	StateExchanged
	StateReattached
	StateRejected
)

func (s SwapState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateDetached:
		return "detached"
	case StateLocked:
		return "locked"
	case StateExchanged:
		return "exchanged"
	case StateReattached:
		return "reattached"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type SwapTransition struct {
	From, To SwapState
	A, B     *Object
	Err      error
}

type swapRun struct {
	g     *Graph
	a, b  *Object
	state SwapState

	// while hold is set, transitions are queued for flush instead of being
	// delivered; observers never run under g.tree or a stripe
	hold    bool
	pending []SwapTransition
}

func (r *swapRun) to(s SwapState, err error) {
	t := SwapTransition{From: r.state, To: s, A: r.a, B: r.b, Err: err}
	r.state = s
	ev := r.g.log.Debug()
	if s == StateRejected {
		ev = r.g.log.Warn().Err(err)
	}
	ev.Uint64("a", r.a.id).Uint64("b", r.b.id).Stringer("from", t.From).Stringer("to", s).Msg("swap")
	if r.hold {
		r.pending = append(r.pending, t)
		return
	}
	r.notify(t)
}

func (r *swapRun) notify(t SwapTransition) {
	for _, fn := range r.g.observers {
		fn(t)
	}
}

// flush delivers the queued transitions. g.tree must not be held.
func (r *swapRun) flush() {
	r.hold = false
	pending := r.pending
	r.pending = nil
	for _, t := range pending {
		r.notify(t)
	}
}

// Swap exchanges the private state of a and b. Afterwards a carries what b
// had and b what a had: properties, name, blocked flag, thread, timers,
// parent and children, and both ends of every connection. Identities, and the
// shared and weak handles bound to them, stay put.
//
// Swap refuses, before touching anything, when either object is destroyed or
// referenced by a Shared or Weak handle, when the caller's thread (from ctx)
// may not mutate both objects, or when a's type does not inherit b's. The
// returned *SwapError wraps the reason. Swapping an object with itself does
// nothing.
func (g *Graph) Swap(ctx context.Context, a, b *Object) error {
	if a == b {
		return nil
	}
	r := &swapRun{g: g, a: a, b: b}
	r.to(StateValidating, nil)
	if err := g.validate(ctx, a, b); err != nil {
		r.to(StateRejected, err)
		return err
	}

	g.tree.Lock()
	// Destroy flags objects under g.tree, so this is the last word on it
	if side := destroyedSide(a, b); side != nil {
		g.tree.Unlock()
		err := swapError(a, b, side, ErrDestroyed)
		r.to(StateRejected, err)
		return err
	}
	r.hold = true

	plan := g.detach(a, b)
	timersA := unregisterTimers(a)
	timersB := unregisterTimers(b)
	r.to(StateDetached, nil)

	r.to(StateLocked, nil)
	u := g.pool.LockBoth(a.id, b.id)
	exchange(a, b)
	u.Unlock()
	r.to(StateExchanged, nil)

	// b now holds the state a had, so a's timers fire on b and vice versa
	g.reattach(plan)
	registerTimers(b, timersA)
	registerTimers(a, timersB)
	r.to(StateReattached, nil)
	r.to(StateIdle, nil)
	g.tree.Unlock()

	r.flush()
	return nil
}

func swapError(a, b, side *Object, err error) error {
	se := &SwapError{A: a.id, B: b.id, Err: err}
	if side != nil {
		se.Object = side.id
	}
	return se
}

func destroyedSide(a, b *Object) *Object {
	switch {
	case a.IsDestroyed():
		return a
	case b.IsDestroyed():
		return b
	}
	return nil
}

func (g *Graph) validate(ctx context.Context, a, b *Object) error {
	reject := func(side *Object, err error) error {
		return swapError(a, b, side, err)
	}

	if a.g != g || b.g != g {
		return reject(nil, ErrForeignObject)
	}
	if side := destroyedSide(a, b); side != nil {
		return reject(side, ErrDestroyed)
	}
	for _, o := range []*Object{a, b} {
		if err := checkAffinity(ctx, o); err != nil {
			return reject(o, err)
		}
	}
	if ta, tb := a.Thread(), b.Thread(); ta != nil && tb != nil && ta != tb {
		return reject(nil, ErrThreadAffinity)
	}
	if !a.meta.Inherits(b.meta) {
		return reject(nil, ErrTypeIncompatible)
	}
	for _, o := range []*Object{a, b} {
		if !g.CheckSwappable(o) {
			return reject(o, ErrSharingViolation)
		}
	}
	return nil
}

// exchange is the critical section. Both stripes are held; it must not
// allocate or call out.
func exchange(a, b *Object) {
	da, db := a.d.Load(), b.d.Load()
	a.d.Store(db)
	b.d.Store(da)
	db.owner.Store(a)
	da.owner.Store(b)

	// reference cells belong to identities: hand each back to its object
	cellA := da.refCell.Swap(nil)
	cellB := db.refCell.Swap(cellA)
	da.refCell.Store(cellB)

	relocateRegistries(a, b)
}

// IsRejection reports whether err is a swap refused before any mutation.
func IsRejection(err error) bool {
	var se *SwapError
	return errors.As(err, &se)
}
