package object

import (
	"fmt"
	"slices"
	"time"
)

// StartTimer starts a repeating timer on o's thread dispatcher.
func (o *Object) StartTimer(interval time.Duration, typ TimerType) (int, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("start timer %v: %w", interval, ErrInvalidInterval)
	}
	if o.IsDestroyed() {
		return 0, ErrDestroyed
	}
	d := o.state()
	d.mu.Lock()
	defer d.mu.Unlock()
	disp := d.thread.Dispatcher()
	if disp == nil {
		return 0, ErrNoDispatcher
	}
	id := o.g.allocTimerID()
	d.timers = append(d.timers, id)
	disp.RegisterTimer(id, interval, typ, o)
	return id, nil
}

func (o *Object) KillTimer(id int) error {
	d := o.state()
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.Index(d.timers, id)
	if i < 0 {
		return fmt.Errorf("kill timer %d: %w", id, ErrUnknownTimer)
	}
	d.timers = slices.Delete(d.timers, i, i+1)
	if disp := d.thread.Dispatcher(); disp != nil {
		disp.UnregisterTimer(id)
	}
	o.g.releaseTimerID(id)
	return nil
}

// Timers lists the ids of o's running timers.
func (o *Object) Timers() []int {
	d := o.state()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.timers)
}

// OnTimer installs the handler that receives o's timer events. The handler
// is part of o's private state and travels with it.
func (o *Object) OnTimer(fn func(TimerEvent)) {
	d := o.state()
	d.mu.Lock()
	d.timerHandler = fn
	d.mu.Unlock()
}

func (o *Object) deliverTimer(id int) bool {
	d := o.state()
	d.mu.RLock()
	owned := slices.Contains(d.timers, id)
	fn := d.timerHandler
	d.mu.RUnlock()
	if !owned || o.IsDestroyed() {
		return false
	}
	if fn != nil {
		fn(TimerEvent{ID: id, Object: o})
	}
	return true
}

// unregisterTimers pops o's timers off its thread's dispatcher.
func unregisterTimers(o *Object) []TimerInfo {
	disp := o.Thread().Dispatcher()
	if disp == nil {
		return nil
	}
	return disp.UnregisterTimers(o)
}

// registerTimers schedules timers on o, using the dispatcher of the thread o
// is bound to now.
func registerTimers(o *Object, timers []TimerInfo) {
	if len(timers) == 0 {
		return
	}
	disp := o.Thread().Dispatcher()
	if disp == nil {
		return
	}
	for _, ti := range timers {
		disp.RegisterTimer(ti.ID, ti.Interval, ti.Type, o)
	}
}

func (o *Object) killAllTimers() {
	unregisterTimers(o)
	d := o.state()
	d.mu.Lock()
	ids := d.timers
	d.timers = nil
	d.mu.Unlock()
	for _, id := range ids {
		o.g.releaseTimerID(id)
	}
}
