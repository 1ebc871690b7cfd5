// pkg/streams/streams.go

// Package streams provisions the input and output streams the pipeline
// reads and writes: transparent compression chosen by file extension, default
// output naming keyed by mate and single-/paired-end mode, and optional
// read-side bandwidth limiting.
package streams

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/shenwei356/xopen"

	"SeqPipe/pkg/fastq"
)

// OpenInput opens path for reading with transparent decompression:
// ".zst" via zstd, gzip and plain text via xopen, "-" for stdin.
func OpenInput(path string) (io.ReadCloser, error) {
	if strings.HasSuffix(path, ".zst") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return &zstdReader{zstd.NewReader(f), f}, nil
	}
	return xopen.Ropen(path)
}

// CreateOutput creates path for writing: ".zst" via zstd, ".gz" compressed
// and plain text via xopen, "-" for stdout.
func CreateOutput(path string) (io.WriteCloser, error) {
	if strings.HasSuffix(path, ".zst") {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return &zstdWriter{zstd.NewWriter(f), f}, nil
	}
	return xopen.Wopen(path)
}

// OutputPath returns the default output filename for a mate:
// <prefix>.pair1.fq.gz / <prefix>.pair2.fq.gz in paired-end mode,
// <prefix>.fq.gz in single-end mode.
func OutputPath(prefix string, mate fastq.Mate, paired bool) string {
	if !paired {
		return prefix + ".fq.gz"
	}
	return fmt.Sprintf("%s.pair%d.fq.gz", prefix, int(mate)+1)
}

type zstdReader struct {
	zr io.ReadCloser
	f  *os.File
}

func (r *zstdReader) Read(p []byte) (int, error) { return r.zr.Read(p) }

func (r *zstdReader) Close() error {
	if err := r.zr.Close(); err != nil {
		_ = r.f.Close()
		return err
	}
	return r.f.Close()
}

type zstdWriter struct {
	zw *zstd.Writer
	f  *os.File
}

func (w *zstdWriter) Write(p []byte) (int, error) { return w.zw.Write(p) }

func (w *zstdWriter) Close() error {
	if err := w.zw.Close(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}
