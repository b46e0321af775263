// Package object is a small observer framework whose objects can trade their
// entire private state while keeping their identities.
//
// Every object belongs to a Graph. The Graph owns the lock stripes that guard
// connection lists, the ownership tree lock and the timer id space. Objects
// created on different graphs never interact.
package object

import (
	"context"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/swapparty/lockpool"
	"github.com/rs/zerolog"
)

// GuardStrategy selects how the shared-reference guard reads reference
// counts.
type GuardStrategy int

const (
	// GuardAuto inspects the reference cell directly.
	GuardAuto GuardStrategy = iota
	// GuardInspect reads an existing reference cell; no cell means no holders.
	GuardInspect
	// GuardProbe takes a throwaway weak reference and reads the counts it
	// observes. It allocates a cell for objects that never had one.
	GuardProbe
)

func (s GuardStrategy) String() string {
	switch s {
	case GuardInspect:
		return "inspect"
	case GuardProbe:
		return "probe"
	default:
		return "auto"
	}
}

type Graph struct {
	pool   *lockpool.Pool
	guard  GuardStrategy
	log    zerolog.Logger
	nextID atomic.Uint64

	// tree guards parent and children of every object on the graph. It is
	// always taken before any stripe.
	tree sync.Mutex

	timerMu  sync.Mutex
	timerIDs mapset.Set[int]
	nextTID  int

	observers []func(SwapTransition)
}

type Option func(*Graph)

func WithPoolSize(n int) Option {
	return func(g *Graph) {
		g.pool = lockpool.New(n)
	}
}

func WithGuardStrategy(s GuardStrategy) Option {
	return func(g *Graph) {
		g.guard = s
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(g *Graph) {
		g.log = l
	}
}

// WithSwapObserver registers fn to be told about every swap state
// transition. Transitions of the locked phase are delivered once the swap
// has released every lock, so fn may read or change the tree.
func WithSwapObserver(fn func(SwapTransition)) Option {
	return func(g *Graph) {
		g.observers = append(g.observers, fn)
	}
}

func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		log:      zerolog.Nop(),
		timerIDs: mapset.NewThreadUnsafeSet[int](),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.pool == nil {
		g.pool = lockpool.New(lockpool.DefaultSize)
	}
	return g
}

func (g *Graph) Pool() *lockpool.Pool {
	return g.pool
}

func (g *Graph) GuardStrategy() GuardStrategy {
	return g.guard
}

// New creates an object of type meta bound to the thread carried by ctx and
// parented to parent. A nil meta means ObjectMeta.
func (g *Graph) New(ctx context.Context, meta *MetaType, parent *Object) (*Object, error) {
	if meta == nil {
		meta = ObjectMeta
	}
	th := ThreadFrom(ctx)
	if parent != nil {
		if parent.g != g {
			return nil, ErrForeignObject
		}
		if parent.IsDestroyed() {
			return nil, ErrDestroyed
		}
		if parent.Thread() != th {
			return nil, ErrThreadAffinity
		}
	}

	o := &Object{
		g:    g,
		id:   g.nextID.Add(1),
		meta: meta,
	}
	d := &privateState{
		thread:     th,
		properties: map[string]any{},
	}
	d.owner.Store(o)
	o.d.Store(d)

	if parent != nil {
		g.tree.Lock()
		g.setParentLocked(o, parent, -1)
		g.tree.Unlock()
	}
	return o, nil
}

func (g *Graph) allocTimerID() int {
	g.timerMu.Lock()
	defer g.timerMu.Unlock()
	for {
		g.nextTID++
		if g.nextTID <= 0 {
			g.nextTID = 1
		}
		if !g.timerIDs.Contains(g.nextTID) {
			g.timerIDs.Add(g.nextTID)
			return g.nextTID
		}
	}
}

func (g *Graph) releaseTimerID(id int) {
	g.timerMu.Lock()
	g.timerIDs.Remove(id)
	g.timerMu.Unlock()
}
