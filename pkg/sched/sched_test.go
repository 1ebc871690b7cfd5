// pkg/sched/sched_test.go

package sched

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SeqPipe/pkg/fastq"
)

// passStep moves input lines to output with a little jitter so worker
// completion order is scrambled.
type passStep struct{}

func (passStep) Process(c *fastq.Chunk) error {
	time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	for m := range c.Mates {
		for _, line := range c.Mates[m] {
			c.Output[m] = append(c.Output[m], line+"\n")
		}
		c.Mates[m] = c.Mates[m][:0]
	}
	return nil
}

func (passStep) Finalize() error { return nil }

func fastqFile(mate, n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "@read-%d/%d\nACGTACGT\n+\nIIIIIIII\n", i, mate)
	}
	return sb.String()
}

func TestPipelinePreservesOrderUnderJitter(t *testing.T) {
	const records = 100
	in1 := fastqFile(1, records)
	in2 := fastqFile(2, records)

	r1, err := fastq.NewReader(strings.NewReader(in1), fastq.Mate1, 8)
	require.NoError(t, err)
	r2, err := fastq.NewReader(strings.NewReader(in2), fastq.Mate2, 8)
	require.NoError(t, err)

	var out1, out2 bytes.Buffer
	w1, err := fastq.NewWriter(&out1, fastq.Mate1, false)
	require.NoError(t, err)
	w2, err := fastq.NewWriter(&out2, fastq.Mate2, false)
	require.NoError(t, err)

	pipe := &Pipeline{
		Readers: []Step{r1, r2},
		Workers: []Step{passStep{}},
		Writers: []Step{w1, w2},
		Threads: 4,
		Pool:    fastq.NewPool(6),
	}
	require.NoError(t, pipe.Run(context.Background()))
	require.NoError(t, w1.Close())
	require.NoError(t, w2.Close())

	assert.Equal(t, in1, out1.String())
	assert.Equal(t, in2, out2.String())
}

func TestPipelineRecyclesBoundedChunks(t *testing.T) {
	in := fastqFile(1, 200)
	r, err := fastq.NewReader(strings.NewReader(in), fastq.Mate1, 4)
	require.NoError(t, err)
	w, err := fastq.NewWriter(&bytes.Buffer{}, fastq.Mate1, false)
	require.NoError(t, err)

	pool := fastq.NewPool(3)
	pipe := &Pipeline{
		Readers: []Step{r},
		Workers: []Step{passStep{}},
		Writers: []Step{w},
		Threads: 2,
		Pool:    pool,
	}
	require.NoError(t, pipe.Run(context.Background()))
	assert.Zero(t, pool.InFlight(), "every chunk returns to the pool")
}

type failAfter struct {
	mu    sync.Mutex
	seen  int
	limit int
	err   error
}

func (f *failAfter) Process(c *fastq.Chunk) error {
	f.mu.Lock()
	f.seen++
	n := f.seen
	f.mu.Unlock()
	if n > f.limit {
		return f.err
	}
	return passStep{}.Process(c)
}

func (f *failAfter) Finalize() error { return nil }

func TestPipelineAbortsOnWorkerError(t *testing.T) {
	boom := errors.New("boom")
	in := fastqFile(1, 64)
	r, err := fastq.NewReader(strings.NewReader(in), fastq.Mate1, 8)
	require.NoError(t, err)
	var out bytes.Buffer
	w, err := fastq.NewWriter(&out, fastq.Mate1, false)
	require.NoError(t, err)

	pipe := &Pipeline{
		Readers: []Step{r},
		Workers: []Step{&failAfter{limit: 2, err: boom}},
		Writers: []Step{w},
		Threads: 3,
		Pool:    fastq.NewPool(4),
	}
	err = pipe.Run(context.Background())
	assert.Equal(t, boom, errors.Cause(err))
	// writers were still finalized, so whatever was written is flushed
	assert.NoError(t, w.Close())
}

type recordingStep struct {
	name  string
	order *[]string
	mu    *sync.Mutex
}

func (r recordingStep) Process(c *fastq.Chunk) error { return nil }

func (r recordingStep) Finalize() error {
	r.mu.Lock()
	*r.order = append(*r.order, r.name)
	r.mu.Unlock()
	return nil
}

func TestPipelineFinalizesInStageOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	step := func(name string) recordingStep {
		return recordingStep{name: name, order: &order, mu: &mu}
	}

	pipe := &Pipeline{
		Readers: []Step{step("reader")},
		Workers: []Step{step("worker")},
		Writers: []Step{step("writer-1"), step("writer-2")},
		Threads: 2,
		Pool:    fastq.NewPool(2),
	}
	require.NoError(t, pipe.Run(context.Background()))
	assert.Equal(t, []string{"reader", "worker", "writer-1", "writer-2"}, order)
}

func TestPipelineHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := fastq.NewReader(strings.NewReader(fastqFile(1, 1000)), fastq.Mate1, 4)
	require.NoError(t, err)
	w, err := fastq.NewWriter(&bytes.Buffer{}, fastq.Mate1, false)
	require.NoError(t, err)

	pipe := &Pipeline{
		Readers: []Step{r},
		Workers: []Step{passStep{}},
		Writers: []Step{w},
		Threads: 2,
		Pool:    fastq.NewPool(2),
	}
	assert.ErrorIs(t, pipe.Run(ctx), context.Canceled)
}
