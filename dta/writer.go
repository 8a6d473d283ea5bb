package dta

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/arloliu/stata/endian"
	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/format"
	"github.com/arloliu/stata/frame"
	"github.com/arloliu/stata/internal/byteio"
	"github.com/arloliu/stata/internal/options"
	"github.com/arloliu/stata/internal/pool"
	"github.com/arloliu/stata/section"
)

// Writer encodes one frame table into a release 118 dta file.
//
// The sink must be seekable: the offset map is emitted as zeros and
// overwritten once the body is complete. A Writer is single-use and not
// safe for concurrent use.
type Writer struct {
	maxBuffer int
	verbose   bool
	logw      io.Writer

	bw *byteio.Writer
}

// NewWriter returns a Writer over w.
func NewWriter(w io.WriteSeeker, opts ...WriterOption) (*Writer, error) {
	wr := &Writer{
		maxBuffer: DefaultMaxBuffer,
		verbose:   true,
		logw:      os.Stdout,
	}
	if err := options.Apply(wr, opts...); err != nil {
		return nil, err
	}
	wr.bw = byteio.NewWriter(w)

	return wr, nil
}

// Write encodes t. Columns the format cannot represent are dropped and
// reported; the file is still produced unless nothing remains, in which
// case no bytes are written and ErrNoColumns is returned.
func (wr *Writer) Write(t *frame.Table) error {
	plans := prepare(t, func(col *frame.Column, reason string) {
		if wr.verbose {
			fmt.Fprintf(wr.logw, "column %s: excluded from output (%s)\n", col.Name(), reason)
		}
	})
	if len(plans) == 0 {
		return errs.ErrNoColumns
	}

	names := make([]string, len(plans))
	formats := make([]string, len(plans))
	vlNames := make([]string, len(plans))
	varLabels := make([]string, len(plans))
	types := make([]format.StorageType, len(plans))
	var labelSets []section.LabelSet
	for i, p := range plans {
		names[i] = p.col.Name()
		formats[i] = p.display
		varLabels[i] = p.col.Label()
		types[i] = p.storage
		if p.labels != nil {
			vlNames[i] = p.labels.Name
			labelSets = append(labelSets, *p.labels)
		}
	}
	names = section.SanitizeNames(names)

	rows := t.NumRows()
	var m section.OffsetMap

	mapPos, err := section.WriteHeader(wr.bw, len(plans), rows, time.Now())
	if err != nil {
		return err
	}
	m[section.MapPosStart] = 0
	m[section.MapPosMap] = mapPos - int64(len(section.TagMapOpen))

	sections := []struct {
		pos  int
		emit func() error
	}{
		{section.MapPosVarTypes, func() error { return section.WriteVarTypes(wr.bw, types) }},
		{section.MapPosVarNames, func() error { return section.WriteVarNames(wr.bw, names) }},
		{section.MapPosSortList, func() error { return section.WriteSortList(wr.bw, len(plans)) }},
		{section.MapPosFormats, func() error { return section.WriteFormats(wr.bw, formats) }},
		{section.MapPosVLNames, func() error { return section.WriteValueLabelNames(wr.bw, vlNames) }},
		{section.MapPosVarLabels, func() error { return section.WriteVarLabels(wr.bw, varLabels) }},
		{section.MapPosChars, func() error { return section.WriteEmptyCharacteristics(wr.bw) }},
		{section.MapPosData, func() error { return wr.writeData(plans, rows) }},
		{section.MapPosStrls, func() error { return section.WriteEmptyStrls(wr.bw) }},
		{section.MapPosValueLabels, func() error { return section.WriteValueLabels(wr.bw, labelSets) }},
		{section.MapPosCloseTag, func() error { return wr.bw.Literal(section.TagClose) }},
	}
	for _, s := range sections {
		if m[s.pos], err = wr.bw.Tell(); err != nil {
			return err
		}
		if err = s.emit(); err != nil {
			return err
		}
	}
	if m[section.MapPosEOF], err = wr.bw.Tell(); err != nil {
		return err
	}

	return section.WriteMap(wr.bw, mapPos, m)
}

// writeData emits the row-major body. Rows accumulate in a pooled buffer
// and flush in groups whenever the buffer reaches the configured cap.
func (wr *Writer) writeData(plans []columnPlan, rows int) error {
	if err := wr.bw.Literal(section.TagDataOpen); err != nil {
		return err
	}

	bb := pool.GetRowBuffer()
	defer pool.PutRowBuffer(bb)

	var err error
	for i := 0; i < rows; i++ {
		for _, p := range plans {
			if bb.B, err = appendCell(bb.B, p, i); err != nil {
				return err
			}
		}
		if bb.Len() >= wr.maxBuffer {
			if err = wr.bw.Bytes(bb.Bytes()); err != nil {
				return err
			}
			bb.Reset()
		}
	}
	if bb.Len() > 0 {
		if err = wr.bw.Bytes(bb.Bytes()); err != nil {
			return err
		}
	}

	return wr.bw.Literal(section.TagDataClose)
}

// appendCell encodes row i of the planned column, converting missing cells
// to the canonical sentinel of the storage type.
func appendCell(buf []byte, p columnPlan, i int) ([]byte, error) {
	engine := endian.Little()
	col := p.col
	missing := col.IsMissing(i)

	switch col.Kind() {
	case frame.KindBool:
		vals, _ := col.Bools()
		v := format.MissingInt8
		if !missing {
			v = 0
			if vals[i] {
				v = 1
			}
		}

		return append(buf, byte(v)), nil

	case frame.KindInt8:
		vals, _ := col.Int8s()
		v := format.MissingInt8
		if !missing {
			v = vals[i]
		}

		return append(buf, byte(v)), nil

	case frame.KindInt16:
		vals, _ := col.Int16s()
		v := format.MissingInt16
		if !missing {
			v = vals[i]
		}

		return engine.AppendUint16(buf, uint16(v)), nil

	case frame.KindInt32:
		vals, _ := col.Int32s()
		v := format.MissingInt32
		if !missing {
			v = vals[i]
		}

		return engine.AppendUint32(buf, uint32(v)), nil

	case frame.KindInt64:
		vals, _ := col.Int64s()
		v := format.MissingInt32
		if !missing {
			v = int32(vals[i])
		}

		return engine.AppendUint32(buf, uint32(v)), nil

	case frame.KindFloat32:
		vals, _ := col.Float32s()
		v := format.MissingFloat32
		if !missing {
			v = vals[i]
		}

		return engine.AppendUint32(buf, floatBits32(v)), nil

	case frame.KindFloat64:
		vals, _ := col.Float64s()
		v := format.MissingFloat64
		if !missing {
			v = vals[i]
		}

		return engine.AppendUint64(buf, floatBits64(v)), nil

	case frame.KindDate:
		vals, _ := col.Times()
		v := format.MissingInt32
		if !missing {
			v = int32(format.DaysFromDate(vals[i]))
		}

		return engine.AppendUint32(buf, uint32(v)), nil

	case frame.KindDateTime:
		vals, _ := col.Times()
		v := format.MissingFloat64
		if !missing {
			v = float64(format.MillisFromTime(vals[i]))
		}

		return engine.AppendUint64(buf, floatBits64(v)), nil

	case frame.KindString:
		vals, _ := col.Strings()
		cell := make([]byte, int(p.storage))
		if !missing {
			copy(cell, vals[i])
		}

		return append(buf, cell...), nil

	case frame.KindCategorical:
		return appendCategoricalCell(buf, p, i, missing)

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrColumnExcluded, col.Kind())
	}
}

func floatBits32(v float32) uint32 { return math.Float32bits(v) }

func floatBits64(v float64) uint64 { return math.Float64bits(v) }

// appendCategoricalCell writes the pool code: as a long for text-backed
// pools, in the native numeric width otherwise.
func appendCategoricalCell(buf []byte, p columnPlan, i int, missing bool) ([]byte, error) {
	engine := endian.Little()
	codes, _ := p.col.Codes()

	switch p.storage {
	case format.TypeInt8:
		v := format.MissingInt8
		if !missing {
			v = int8(codes[i])
		}

		return append(buf, byte(v)), nil
	case format.TypeInt16:
		v := format.MissingInt16
		if !missing {
			v = int16(codes[i])
		}

		return engine.AppendUint16(buf, uint16(v)), nil
	case format.TypeInt32:
		v := format.MissingInt32
		if !missing {
			v = codes[i]
		}

		return engine.AppendUint32(buf, uint32(v)), nil
	case format.TypeFloat32:
		v := format.MissingFloat32
		if !missing {
			v = float32(codes[i])
		}

		return engine.AppendUint32(buf, floatBits32(v)), nil
	default:
		v := format.MissingFloat64
		if !missing {
			v = float64(codes[i])
		}

		return engine.AppendUint64(buf, floatBits64(v)), nil
	}
}
