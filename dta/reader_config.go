package dta

import (
	"fmt"

	"github.com/arloliu/stata/internal/options"
)

// DefaultChunks is the number of slabs a large data body is split into.
const DefaultChunks = 10

// chunkThreshold is the body size, in bytes, at or above which the reader
// switches from a single slurp to chunked slabs. A variable so tests can
// exercise the slab path without hundred-megabyte fixtures.
var chunkThreshold = 100_000_000

// minChunkRows is the smallest slab the chunk driver produces; splitting
// finer than this costs more in bookkeeping than it saves in memory.
var minChunkRows = 100_000

// ReaderOption is a functional option for configuring a Reader.
type ReaderOption = options.Option[*Reader]

// WithChunks sets how many slabs a large data body is split into. Chunking
// is purely a memory strategy: every chunk count produces the same table.
func WithChunks(n int) ReaderOption {
	return options.New(func(r *Reader) error {
		if n < 1 {
			return fmt.Errorf("chunk count must be at least 1, got %d", n)
		}
		r.chunks = n

		return nil
	})
}

// WithKeepOriginal controls the category text of label-mapped columns.
// When set, each category shows both the numeric code and its label
// ("2: male") instead of the label alone.
func WithKeepOriginal(keep bool) ReaderOption {
	return options.NoError(func(r *Reader) {
		r.keepOriginal = keep
	})
}
