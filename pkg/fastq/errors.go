// pkg/fastq/errors.go

package fastq

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidMate is returned by constructors given a mate identity outside
// Mate1/Mate2. It is a configuration error raised before any stream is
// touched, never a runtime I/O condition.
var ErrInvalidMate = errors.New("invalid mate identity")

// IOError is a fatal stream read/write failure. It carries enough context to
// tell the user which mate's stream failed and the line offset last
// successfully processed. End of stream is not an IOError; it is signalled by
// an empty batch.
type IOError struct {
	Mate Mate
	Op   string // "read" or "write"
	Line int64  // 1-based line offset of the failure
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s at line %d: %s", e.Op, e.Mate, e.Line, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *IOError) Unwrap() error { return e.Err }

// Cause supports github.com/pkg/errors.Cause.
func (e *IOError) Cause() error { return e.Err }
