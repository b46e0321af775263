package object

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type TimerType int

const (
	PreciseTimer TimerType = iota
	CoarseTimer
	VeryCoarseTimer
)

func (t TimerType) String() string {
	switch t {
	case PreciseTimer:
		return "precise"
	case CoarseTimer:
		return "coarse"
	case VeryCoarseTimer:
		return "very-coarse"
	default:
		return "unknown"
	}
}

type TimerInfo struct {
	ID       int
	Interval time.Duration
	Type     TimerType
}

type TimerEvent struct {
	ID     int
	Object *Object
}

type timerEntry struct {
	TimerInfo
	object *Object
	due    time.Duration
}

// Dispatcher runs the repeating timers of one thread on a clock that only
// moves when Advance is called. Run drives it from wall time.
type Dispatcher struct {
	mu     sync.Mutex
	now    time.Duration
	timers map[*Object][]*timerEntry
	byID   map[int]*timerEntry
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{
		timers: map[*Object][]*timerEntry{},
		byID:   map[int]*timerEntry{},
	}
}

// RegisterTimer schedules timer id on o, first firing one interval from now.
func (d *Dispatcher) RegisterTimer(id int, interval time.Duration, typ TimerType, o *Object) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[id]; ok {
		d.unregisterLocked(id)
	}
	e := &timerEntry{
		TimerInfo: TimerInfo{ID: id, Interval: interval, Type: typ},
		object:    o,
		due:       d.now + interval,
	}
	d.timers[o] = append(d.timers[o], e)
	d.byID[id] = e
}

func (d *Dispatcher) UnregisterTimer(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unregisterLocked(id)
}

func (d *Dispatcher) unregisterLocked(id int) bool {
	e, ok := d.byID[id]
	if !ok {
		return false
	}
	delete(d.byID, id)
	list := slices.DeleteFunc(d.timers[e.object], func(x *timerEntry) bool { return x == e })
	if len(list) == 0 {
		delete(d.timers, e.object)
	} else {
		d.timers[e.object] = list
	}
	return true
}

// UnregisterTimers removes and returns every timer registered for o in one
// step.
func (d *Dispatcher) UnregisterTimers(o *Object) []TimerInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries := d.timers[o]
	delete(d.timers, o)
	infos := make([]TimerInfo, 0, len(entries))
	for _, e := range entries {
		delete(d.byID, e.ID)
		infos = append(infos, e.TimerInfo)
	}
	return infos
}

func (d *Dispatcher) RegisteredTimers(o *Object) []TimerInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	infos := make([]TimerInfo, 0, len(d.timers[o]))
	for _, e := range d.timers[o] {
		infos = append(infos, e.TimerInfo)
	}
	return infos
}

func (d *Dispatcher) Now() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

type firing struct {
	at time.Duration
	id int
	o  *Object
}

// Advance moves the clock forward by dt and delivers every firing that fell
// due, oldest first. It returns the number of deliveries.
func (d *Dispatcher) Advance(dt time.Duration) int {
	d.mu.Lock()
	d.now += dt
	var due []firing
	for _, e := range d.byID {
		for e.due <= d.now {
			due = append(due, firing{at: e.due, id: e.ID, o: e.object})
			e.due += e.Interval
		}
	}
	d.mu.Unlock()

	slices.SortFunc(due, func(a, b firing) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	n := 0
	for _, f := range due {
		if f.o.deliverTimer(f.id) {
			n++
		}
	}
	return n
}

// Run advances the clock with wall time every resolution until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, resolution time.Duration) error {
	if resolution <= 0 {
		return ErrInvalidInterval
	}
	t := time.NewTicker(resolution)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			d.Advance(now.Sub(last))
			last = now
		}
	}
}
