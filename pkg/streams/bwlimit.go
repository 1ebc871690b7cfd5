// pkg/streams/bwlimit.go

package streams

import (
	"io"

	"github.com/juju/ratelimit"
)

type limitedReader struct {
	io.Reader
	bucket *ratelimit.Bucket
}

func (l *limitedReader) Read(buf []byte) (int, error) {
	n, err := l.Reader.Read(buf)
	if l.bucket != nil {
		l.bucket.Wait(int64(n))
	}
	return n, err
}

// Close closes the underlying reader
func (l *limitedReader) Close() error {
	if rc, ok := l.Reader.(io.Closer); ok {
		return rc.Close()
	}
	return nil
}

// WithRateLimit caps reads from r at bytesPerSec. A non-positive limit
// returns r unchanged apart from the ReadCloser wrapping.
func WithRateLimit(r io.Reader, bytesPerSec int64) io.ReadCloser {
	var bucket *ratelimit.Bucket
	if bytesPerSec > 0 {
		bucket = ratelimit.NewBucketWithRate(float64(bytesPerSec), bytesPerSec)
	}
	return &limitedReader{r, bucket}
}
