// Package dta implements the bidirectional codec between frame tables and
// the Stata dta binary format, releases 117 and 118.
//
// Reading:
//
//	r, err := dta.NewReader(f)
//	tbl, err := r.Read()
//
// Writing:
//
//	w, err := dta.NewWriter(f)
//	err = w.Write(tbl)
//
// The Reader materializes the whole table before returning; bodies of
// 100MB or more are decoded in slabs to bound peak memory, with identical results
// for every chunk count.
package dta

import (
	"fmt"
	"io"

	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/format"
	"github.com/arloliu/stata/frame"
	"github.com/arloliu/stata/internal/byteio"
	"github.com/arloliu/stata/internal/options"
	"github.com/arloliu/stata/internal/pool"
	"github.com/arloliu/stata/section"
)

// Reader decodes one dta file into a frame table.
//
// NewReader parses the header, metadata, value labels and strL heap
// immediately; Read decodes the data body. A Reader is single-use and not
// safe for concurrent use.
type Reader struct {
	chunks       int
	keepOriginal bool

	bio *byteio.Reader
	hdr *section.Header

	types      []format.StorageType
	names      []string
	formats    []string
	timeKinds  []format.TimeKind
	vlNames    []string
	varLabels  []string
	labelSets  map[string]map[int32]string
	strls      map[section.StrlRef]string
	rowWidth   int
	colOffsets []int
	bodyStart  int64

	readDone bool
}

// NewReader parses the header and every non-body section of the stream.
// The stream must stay open until Read returns.
func NewReader(r io.ReadSeeker, opts ...ReaderOption) (*Reader, error) {
	rd := &Reader{chunks: DefaultChunks}
	if err := options.Apply(rd, opts...); err != nil {
		return nil, err
	}
	rd.bio = byteio.NewReader(r)
	if err := rd.init(); err != nil {
		return nil, err
	}

	return rd, nil
}

// Release returns the decoded file's format release, 117 or 118.
func (r *Reader) Release() int { return r.hdr.Release }

// RowCount returns the number of observations in the file.
func (r *Reader) RowCount() int { return r.hdr.RowCount }

// NumVars returns the number of variables in the file.
func (r *Reader) NumVars() int { return r.hdr.Nvar }

// DatasetLabel returns the file's dataset label, possibly empty.
func (r *Reader) DatasetLabel() string { return r.hdr.DatasetLabel }

// Timestamp returns the file's timestamp text as written by its producer.
func (r *Reader) Timestamp() string { return r.hdr.Timestamp }

// VarNames returns the variable names in column order.
func (r *Reader) VarNames() []string { return r.names }

// StorageTypes returns the storage type code of each variable.
func (r *Reader) StorageTypes() []format.StorageType { return r.types }

// Formats returns the display format of each variable.
func (r *Reader) Formats() []string { return r.formats }

func (r *Reader) init() error {
	if err := r.bio.Seek(0); err != nil {
		return err
	}

	var err error
	if r.hdr, err = section.ReadHeader(r.bio); err != nil {
		return err
	}
	release, nvar := r.hdr.Release, r.hdr.Nvar

	if r.types, err = section.ReadVarTypes(r.bio, release, nvar); err != nil {
		return err
	}
	if r.names, err = section.ReadVarNames(r.bio, release, nvar); err != nil {
		return err
	}
	if err = section.SkipSortList(r.bio, release, nvar); err != nil {
		return err
	}
	if r.formats, err = section.ReadFormats(r.bio, release, nvar); err != nil {
		return err
	}
	r.timeKinds = make([]format.TimeKind, nvar)
	for i, f := range r.formats {
		r.timeKinds[i] = format.ClassifyDisplay(f)
	}
	if r.vlNames, err = section.ReadValueLabelNames(r.bio, release, nvar); err != nil {
		return err
	}
	if r.varLabels, err = section.ReadVarLabels(r.bio, release, nvar); err != nil {
		return err
	}
	if err = section.SkipCharacteristics(r.bio); err != nil {
		return err
	}

	if err = r.bio.Expect(section.TagDataOpen); err != nil {
		return err
	}
	if r.bodyStart, err = r.bio.Tell(); err != nil {
		return err
	}

	r.colOffsets = make([]int, nvar)
	for i, st := range r.types {
		r.colOffsets[i] = r.rowWidth
		r.rowWidth += st.CellWidth()
	}

	// The trailing sections live past the body; skip over it, decode them,
	// and let Read seek back per slab.
	bodyEnd := r.bodyStart + int64(r.rowWidth)*int64(r.hdr.RowCount)
	if err = r.bio.Seek(bodyEnd); err != nil {
		return err
	}
	if err = r.bio.Expect(section.TagDataClose); err != nil {
		return err
	}

	// The strL section is the one optional section: present when the next
	// bytes open it, absent otherwise.
	peek, err := r.bio.Peek(len(section.TagStrlsOpen) - 1)
	if err != nil {
		return err
	}
	if string(peek) == section.TagStrlsOpen[:len(section.TagStrlsOpen)-1] {
		if r.strls, err = section.ReadStrls(r.bio, release); err != nil {
			return err
		}
	} else {
		r.strls = make(map[section.StrlRef]string)
	}

	if r.labelSets, err = section.ReadValueLabels(r.bio, release); err != nil {
		return err
	}

	return r.bio.Expect(section.TagClose)
}

// Read decodes the data body and returns the fully materialized table.
// Bodies whose size reaches the chunk threshold are decoded in row slabs
// and concatenated column-wise.
func (r *Reader) Read() (*frame.Table, error) {
	if r.readDone {
		return nil, fmt.Errorf("%w: reader already consumed", errs.ErrFormat)
	}
	r.readDone = true

	rows := r.hdr.RowCount
	slabRows := rows
	if int64(r.rowWidth)*int64(rows) >= int64(chunkThreshold) {
		slabRows = max(ceilDiv(rows, r.chunks), minChunkRows)
	}

	bb := pool.GetSlabBuffer()
	defer pool.PutSlabBuffer(bb)

	var result *frame.Table
	for start := 0; ; start += slabRows {
		n := rows - start
		if n > slabRows {
			n = slabRows
		}
		if n < 0 {
			n = 0
		}

		if err := r.bio.Seek(r.bodyStart + int64(start)*int64(r.rowWidth)); err != nil {
			return nil, err
		}
		bb.Grow(n * r.rowWidth)
		if err := r.bio.Fill(bb.Bytes()); err != nil {
			return nil, err
		}

		sub, err := r.decodeSlab(bb.Bytes(), n)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = sub
		} else if err := result.Append(sub); err != nil {
			return nil, err
		}

		if start+n >= rows {
			break
		}
	}

	return result, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
