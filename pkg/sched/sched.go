// pkg/sched/sched.go

// Package sched drives chunks through a linear pipeline of steps: readers
// fill recycled chunks, workers transform them on a fixed goroutine pool,
// writers drain them back to the output streams. Chunk ownership moves
// between stages over channels, and a reordering buffer keyed by the chunk
// sequence number restores original input order at the writer boundary, so
// output byte order always reflects input record order no matter how
// out-of-order the workers complete.
package sched

import (
	"context"
	"sync"

	"SeqPipe/pkg/fastq"
)

// Step is one pipeline stage operation. Process mutates the chunk in place
// under exclusive ownership; Finalize is invoked exactly once per step at
// pipeline shutdown, in stage order, even after a failure.
//
// Reader and writer steps are serialized per instance by the pipeline.
// Worker steps run on several goroutines at once and must therefore be safe
// for concurrent Process calls on distinct chunks.
type Step interface {
	Process(*fastq.Chunk) error
	Finalize() error
}

type item struct {
	seq   uint64
	chunk *fastq.Chunk
}

// Pipeline wires reader, worker and writer steps around a chunk pool.
type Pipeline struct {
	Readers []Step // serial, one goroutine each, pipelined across instances
	Workers []Step // run back to back on Threads goroutines
	Writers []Step // serial, in original input order

	Threads int
	Pool    *fastq.Pool
}

// Run processes chunks until the last reader emits its end-of-stream
// sentinel, an error occurs, or ctx is cancelled. The first error stops new
// work, lets in-flight chunks drain, and is returned; streams are still
// finalized so partial output is flushed, never corrupted.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	threads := p.Threads
	if threads < 1 {
		threads = 1
	}
	depth := threads * 2

	var failMu sync.Mutex
	var failErr error
	failed := func() bool {
		failMu.Lock()
		defer failMu.Unlock()
		return failErr != nil
	}
	fail := func(err error) {
		failMu.Lock()
		if failErr == nil {
			failErr = err
			cancel()
		}
		failMu.Unlock()
	}

	stop := make(chan struct{})
	var stopOnce sync.Once

	chans := make([]chan item, len(p.Readers)+1)
	for i := range chans {
		chans[i] = make(chan item, depth)
	}
	workOut := make(chan item, depth)
	writeCh := make(chan item, depth)

	var wg sync.WaitGroup

	// Feeder: draw recycled chunks and tag them with a sequence number.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(chans[0])
		var seq uint64
		for {
			c, err := p.Pool.Get(ctx)
			if err != nil {
				return
			}
			select {
			case chans[0] <- item{seq, c}:
				seq++
			case <-stop:
				p.Pool.Put(c)
				return
			case <-ctx.Done():
				p.Pool.Put(c)
				return
			}
		}
	}()

	// Reader stages. The last one detects the sentinel: the first chunk
	// still empty after every reader ran stops the feeder, and anything
	// already injected behind it is recycled unprocessed so the sentinel
	// stays terminal.
	for i, r := range p.Readers {
		wg.Add(1)
		go func(step Step, in <-chan item, out chan<- item, last bool) {
			defer wg.Done()
			defer close(out)
			done := false
			for it := range in {
				if done || failed() {
					p.Pool.Put(it.chunk)
					continue
				}
				if err := step.Process(it.chunk); err != nil {
					fail(err)
					p.Pool.Put(it.chunk)
					continue
				}
				if last && it.chunk.Empty() {
					done = true
					stopOnce.Do(func() { close(stop) })
				}
				out <- it
			}
		}(r, chans[i], chans[i+1], i == len(p.Readers)-1)
	}

	// Worker pool: unordered completion.
	var wwg sync.WaitGroup
	for t := 0; t < threads; t++ {
		wwg.Add(1)
		go func() {
			defer wwg.Done()
			for it := range chans[len(p.Readers)] {
				if failed() {
					p.Pool.Put(it.chunk)
					continue
				}
				var err error
				for _, s := range p.Workers {
					if err = s.Process(it.chunk); err != nil {
						break
					}
				}
				if err != nil {
					fail(err)
					p.Pool.Put(it.chunk)
					continue
				}
				workOut <- it
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		wwg.Wait()
		close(workOut)
	}()

	// Reordering buffer: release chunks to the writers in sequence order.
	// Sequence numbers reaching this point are contiguous, so every hole
	// eventually fills unless the pipeline failed.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(writeCh)
		pending := make(map[uint64]*fastq.Chunk)
		var next uint64
		for it := range workOut {
			if failed() {
				p.Pool.Put(it.chunk)
				continue
			}
			pending[it.seq] = it.chunk
			for {
				c, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				writeCh <- item{next, c}
				next++
			}
		}
		for _, c := range pending {
			p.Pool.Put(c)
		}
	}()

	// Writer stages: serial, then the drained chunk goes back to the pool.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for it := range writeCh {
			if !failed() {
				for _, s := range p.Writers {
					if err := s.Process(it.chunk); err != nil {
						fail(err)
						break
					}
				}
			}
			p.Pool.Put(it.chunk)
		}
	}()

	wg.Wait()

	// Finalize every step in stage order, also on failure, so every output
	// stream is flushed in whatever state it reached.
	var finErr error
	for _, group := range [][]Step{p.Readers, p.Workers, p.Writers} {
		for _, s := range group {
			if err := s.Finalize(); err != nil && finErr == nil {
				finErr = err
			}
		}
	}

	failMu.Lock()
	err := failErr
	failMu.Unlock()
	switch {
	case err != nil:
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return finErr
	}
}
