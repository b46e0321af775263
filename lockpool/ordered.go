package lockpool

import "sync"

// Unlocker releases the stripes taken by LockBoth. Unlock may be called
// more than once.
type Unlocker struct {
	first, second *sync.Mutex
}

// LockBoth takes the stripes of a and b, lowest index first, so that two
// goroutines locking the same pair in opposite order cannot deadlock. When
// both identities share a stripe it is locked once.
func (p *Pool) LockBoth(a, b uint64) *Unlocker {
	ia, ib := p.Index(a), p.Index(b)
	if ia > ib {
		ia, ib = ib, ia
	}
	u := &Unlocker{first: &p.locks[ia]}
	u.first.Lock()
	if ia != ib {
		u.second = &p.locks[ib]
		u.second.Lock()
	}
	return u
}

func (u *Unlocker) Unlock() {
	if u.second != nil {
		u.second.Unlock()
		u.second = nil
	}
	if u.first != nil {
		u.first.Unlock()
		u.first = nil
	}
}

// Relock acquires the stripe of want while the stripe of held is already
// locked by the caller. If want orders before held, held is released and
// both are retaken in order; the return value reports whether that happened,
// in which case anything read under held must be revalidated. The caller ends
// up holding both stripes and must release want with Unlock(held, want).
func (p *Pool) Relock(held, want uint64) (dropped bool) {
	ih, iw := p.Index(held), p.Index(want)
	if ih == iw {
		return false
	}
	if ih < iw {
		p.locks[iw].Lock()
		return false
	}
	if p.locks[iw].TryLock() {
		return false
	}
	p.locks[ih].Unlock()
	p.locks[iw].Lock()
	p.locks[ih].Lock()
	return true
}

// Unlock releases want after a Relock, leaving held locked.
func (p *Pool) Unlock(held, want uint64) {
	ih, iw := p.Index(held), p.Index(want)
	if ih != iw {
		p.locks[iw].Unlock()
	}
}
