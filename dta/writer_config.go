package dta

import (
	"fmt"
	"io"

	"github.com/arloliu/stata/internal/options"
)

// DefaultMaxBuffer is the default cap, in bytes, on the row-assembly
// buffer. Rows are flushed to the sink whenever the buffer reaches it.
const DefaultMaxBuffer = 10000

// WriterOption is a functional option for configuring a Writer.
type WriterOption = options.Option[*Writer]

// WithMaxBuffer caps the row-assembly buffer size in bytes.
func WithMaxBuffer(n int) WriterOption {
	return options.New(func(w *Writer) error {
		if n < 1 {
			return fmt.Errorf("buffer cap must be positive, got %d", n)
		}
		w.maxBuffer = n

		return nil
	})
}

// WithVerbose controls whether excluded columns are reported. Reporting is
// on by default.
func WithVerbose(verbose bool) WriterOption {
	return options.NoError(func(w *Writer) {
		w.verbose = verbose
	})
}

// WithLogWriter redirects exclusion reports away from standard output.
func WithLogWriter(out io.Writer) WriterOption {
	return options.NoError(func(w *Writer) {
		w.logw = out
	})
}
