// Package lockpool stripes per-object locking over a fixed array of mutexes.
//
// An object never owns a mutex of its own. Its identity is hashed onto one
// of N stripes and every operation that touches the object's connection
// lists takes that stripe. Two objects that collide on a stripe simply
// serialize against each other.
package lockpool

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const DefaultSize = 131

type Pool struct {
	locks []sync.Mutex
}

func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{locks: make([]sync.Mutex, size)}
}

func (p *Pool) Size() int {
	return len(p.locks)
}

// Index maps an identity onto its stripe. It is a pure function of id and
// the pool size.
func (p *Pool) Index(id uint64) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)
	return int(xxhash.Sum64(buf[:]) % uint64(len(p.locks)))
}

func (p *Pool) LockFor(id uint64) *sync.Mutex {
	return &p.locks[p.Index(id)]
}

// Distribution counts how many of the given identities land on each stripe.
func (p *Pool) Distribution(ids ...uint64) []int {
	counts := make([]int, len(p.locks))
	for _, id := range ids {
		counts[p.Index(id)]++
	}
	return counts
}
