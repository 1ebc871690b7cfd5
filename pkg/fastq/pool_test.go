// pkg/fastq/pool_test.go

package fastq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRecyclesChunks(t *testing.T) {
	p := NewPool(4)
	c1, err := p.Get(context.Background())
	require.NoError(t, err)
	c1.Mates[Mate1] = append(c1.Mates[Mate1], "x")
	p.Put(c1)

	c2, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, c1, c2, "the freed chunk is reused")
	assert.Empty(t, c2.Mates[Mate1], "recycled chunks come back reset")
	assert.Equal(t, 1, p.InFlight())
}

func TestPoolBlocksAtCap(t *testing.T) {
	p := NewPool(1)
	c1, err := p.Get(context.Background())
	require.NoError(t, err)

	released := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(released)
		p.Put(c1)
	}()

	c2, err := p.Get(context.Background())
	require.NoError(t, err)
	select {
	case <-released:
	default:
		t.Fatal("Get returned before the chunk was released")
	}
	assert.Same(t, c1, c2)
}

func TestPoolGetHonorsContext(t *testing.T) {
	p := NewPool(1)
	_, err := p.Get(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
