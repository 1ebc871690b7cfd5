// pkg/fastq/pool.go

package fastq

import (
	"context"
	"sync"
	"time"

	"SeqPipe/pkg/utils"
)

// Pool recycles Chunk objects between pipeline cycles and bounds how many
// chunks exist at once, which caps the pipeline's steady-state memory no
// matter how large the input files are. It is the only structure shared
// between pipeline goroutines.
type Pool struct {
	mu    sync.Mutex
	cond  *utils.Cond
	free  []*Chunk
	total int
	max   int
}

// NewPool creates a pool allowing at most max chunks in flight.
func NewPool(max int) *Pool {
	if max < 1 {
		max = 1
	}
	p := &Pool{max: max}
	p.cond = utils.NewCond(&p.mu)
	return p
}

// Get returns a reset chunk, blocking while the in-flight cap is reached.
// It fails only when ctx is cancelled.
func (p *Pool) Get(ctx context.Context) (*Chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if n := len(p.free); n > 0 {
			c := p.free[n-1]
			p.free = p.free[:n-1]
			return c, nil
		}
		if p.total < p.max {
			p.total++
			return &Chunk{}, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.cond.WaitWithTimeout(time.Millisecond * 100)
	}
}

// Put resets c and makes it available to the next Get. The caller must not
// touch c afterwards.
func (p *Pool) Put(c *Chunk) {
	c.Reset()
	p.mu.Lock()
	p.free = append(p.free, c)
	p.mu.Unlock()
	p.cond.Signal()
}

// InFlight returns how many chunks are currently outside the pool.
func (p *Pool) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total - len(p.free)
}
