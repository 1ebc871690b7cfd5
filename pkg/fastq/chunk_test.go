// pkg/fastq/chunk_test.go

package fastq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMateString(t *testing.T) {
	assert.Equal(t, "mate 1", Mate1.String())
	assert.Equal(t, "mate 2", Mate2.String())
	assert.True(t, Mate1.Valid())
	assert.True(t, Mate2.Valid())
	assert.False(t, MateCount.Valid())
	assert.False(t, Mate(200).Valid())
}

func TestChunkResetKeepsCapacity(t *testing.T) {
	c := &Chunk{Offset: 42}
	c.Mates[Mate1] = append(c.Mates[Mate1], "a", "b", "c")
	c.Output[Mate2] = append(c.Output[Mate2], "x\n")

	c.Reset()
	assert.Zero(t, c.Offset)
	assert.Empty(t, c.Mates[Mate1])
	assert.Empty(t, c.Output[Mate2])
	assert.GreaterOrEqual(t, cap(c.Mates[Mate1]), 3, "storage survives reset")
	assert.True(t, c.Empty())
}

func TestChunkEmpty(t *testing.T) {
	c := &Chunk{}
	assert.True(t, c.Empty())

	c.Mates[Mate2] = []string{"line"}
	assert.False(t, c.Empty())

	// output lines alone do not make a chunk non-empty
	c.Reset()
	c.Output[Mate1] = []string{"x\n"}
	assert.True(t, c.Empty())
}
