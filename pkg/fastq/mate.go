// pkg/fastq/mate.go

package fastq

import "fmt"

// Mate identifies one of the two files of a paired-end run.
type Mate uint8

const (
	Mate1 Mate = iota
	Mate2

	// MateCount bounds the per-mate arrays of a Chunk.
	MateCount
)

func (m Mate) String() string {
	switch m {
	case Mate1:
		return "mate 1"
	case Mate2:
		return "mate 2"
	default:
		return fmt.Sprintf("mate(%d)", uint8(m))
	}
}

// Valid reports whether m is one of the two recognized mate identities.
func (m Mate) Valid() bool {
	return m < MateCount
}
