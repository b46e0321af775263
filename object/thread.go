package object

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Thread is an affinity domain. Objects bound to a thread may only be swapped
// or moved by code running on it, which callers state by carrying the thread
// in their context.
type Thread struct {
	id   uuid.UUID
	name string
	disp *Dispatcher
}

type ThreadOption func(*Thread)

// WithoutDispatcher creates a thread that cannot run timers.
func WithoutDispatcher() ThreadOption {
	return func(t *Thread) {
		t.disp = nil
	}
}

func NewThread(name string, opts ...ThreadOption) *Thread {
	t := &Thread{
		id:   uuid.New(),
		name: name,
		disp: newDispatcher(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Thread) ID() uuid.UUID {
	return t.id
}

func (t *Thread) Name() string {
	return t.name
}

// Dispatcher returns the thread's timer dispatcher, nil if it has none.
func (t *Thread) Dispatcher() *Dispatcher {
	if t == nil {
		return nil
	}
	return t.disp
}

func (t *Thread) String() string {
	if t == nil {
		return "<none>"
	}
	return t.name + "/" + t.id.String()[:8]
}

type threadKey struct{}

func WithThread(ctx context.Context, t *Thread) context.Context {
	return context.WithValue(ctx, threadKey{}, t)
}

// ThreadFrom returns the thread carried by ctx, nil if there is none.
func ThreadFrom(ctx context.Context) *Thread {
	t, _ := ctx.Value(threadKey{}).(*Thread)
	return t
}

func checkAffinity(ctx context.Context, o *Object) error {
	if th := o.Thread(); th != nil && th != ThreadFrom(ctx) {
		return ErrThreadAffinity
	}
	return nil
}

// MoveToThread rebinds o and its descendants to t, carrying their timers to
// t's dispatcher. o must be a root and the caller must be on o's thread.
func (g *Graph) MoveToThread(ctx context.Context, o *Object, t *Thread) error {
	if o.g != g {
		return ErrForeignObject
	}
	if o.IsDestroyed() {
		return ErrDestroyed
	}
	if err := checkAffinity(ctx, o); err != nil {
		return err
	}

	g.tree.Lock()
	defer g.tree.Unlock()
	if o.state().parent != nil {
		return fmt.Errorf("move %d to %s: has a parent: %w", o.id, t, ErrThreadAffinity)
	}

	var walk func(*Object)
	walk = func(n *Object) {
		timers := unregisterTimers(n)
		d := n.state()
		d.mu.Lock()
		d.thread = t
		d.mu.Unlock()
		registerTimers(n, timers)
		for _, c := range d.children {
			walk(c)
		}
	}
	walk(o)
	g.log.Debug().Uint64("object", o.id).Stringer("thread", t).Msg("moved to thread")
	return nil
}
