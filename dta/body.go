package dta

import (
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/stata/endian"
	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/format"
	"github.com/arloliu/stata/frame"
	"github.com/arloliu/stata/internal/byteio"
	"github.com/arloliu/stata/section"
)

// decodeSlab materializes nrows rows of the body into a sub-table. Columns
// decode independently, so the per-column work fans out across goroutines;
// results land at their column index, which keeps the observable order.
func (r *Reader) decodeSlab(body []byte, nrows int) (*frame.Table, error) {
	cols := make([]*frame.Column, r.hdr.Nvar)

	var g errgroup.Group
	for j := range cols {
		g.Go(func() error {
			col, err := r.decodeColumn(body, nrows, j)
			if err != nil {
				return err
			}
			col.SetLabel(r.varLabels[j])
			cols[j] = col

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return frame.NewTable(cols...)
}

func (r *Reader) decodeColumn(body []byte, nrows, j int) (*frame.Column, error) {
	st := r.types[j]
	name := r.names[j]
	cell := func(i int) []byte {
		off := i*r.rowWidth + r.colOffsets[j]
		return body[off : off+st.CellWidth()]
	}

	switch {
	case st.IsFixedString():
		return decodeFixedStrings(name, cell, nrows)
	case st == format.TypeStrL:
		return r.decodeStrlColumn(name, cell, nrows)
	default:
		return r.decodeNumericColumn(name, st, cell, nrows, j)
	}
}

func decodeFixedStrings(name string, cell func(int) []byte, nrows int) (*frame.Column, error) {
	vals := make([]string, nrows)
	missing := make([]bool, nrows)
	for i := range vals {
		vals[i] = string(byteio.TrimAtNul(cell(i)))
		missing[i] = vals[i] == ""
	}

	return frame.NewStringColumn(name, vals, missing)
}

// decodeStrlColumn resolves strL references against the heap. strL columns
// come back categorical unconditionally; the pool keeps first-occurrence
// order.
func (r *Reader) decodeStrlColumn(name string, cell func(int) []byte, nrows int) (*frame.Column, error) {
	engine := endian.Little()
	vals := make([]string, nrows)
	missing := make([]bool, nrows)
	for i := range vals {
		var ref section.StrlRef
		if r.hdr.Release == section.Release118 {
			raw := engine.Uint64(cell(i))
			ref.V = uint32(raw & 0xFFFF)
			ref.O = raw >> 16
		} else {
			b := cell(i)
			ref.V = engine.Uint32(b[:4])
			ref.O = uint64(engine.Uint32(b[4:]))
		}
		if ref.IsMissing() {
			missing[i] = true
			continue
		}
		s, ok := r.strls[ref]
		if !ok {
			return nil, fmt.Errorf("%w: strL reference (%d,%d) not in heap", errs.ErrFormat, ref.V, ref.O)
		}
		vals[i] = s
	}

	return frame.CategoricalFromStrings(name, vals, missing)
}

func (r *Reader) decodeNumericColumn(name string, st format.StorageType, cell func(int) []byte, nrows, j int) (*frame.Column, error) {
	engine := endian.Little()
	missing := make([]bool, nrows)

	// The sentinel test runs in the raw numeric domain before any label or
	// date interpretation; a date cell past the threshold is missing, not a
	// far-future date.
	raw := make([]int64, nrows)
	var f32s []float32
	var f64s []float64

	switch st {
	case format.TypeInt8:
		for i := 0; i < nrows; i++ {
			v := int8(cell(i)[0])
			raw[i] = int64(v)
			missing[i] = v > format.MissingThresholdInt8
		}
	case format.TypeInt16:
		for i := 0; i < nrows; i++ {
			v := int16(engine.Uint16(cell(i)))
			raw[i] = int64(v)
			missing[i] = v > format.MissingThresholdInt16
		}
	case format.TypeInt32:
		for i := 0; i < nrows; i++ {
			v := int32(engine.Uint32(cell(i)))
			raw[i] = int64(v)
			missing[i] = v > format.MissingThresholdInt32
		}
	case format.TypeFloat32:
		f32s = make([]float32, nrows)
		for i := 0; i < nrows; i++ {
			v := math.Float32frombits(engine.Uint32(cell(i)))
			f32s[i] = v
			missing[i] = v > format.MissingThresholdFloat32
			raw[i] = int64(v)
		}
	case format.TypeFloat64:
		f64s = make([]float64, nrows)
		for i := 0; i < nrows; i++ {
			v := math.Float64frombits(engine.Uint64(cell(i)))
			f64s[i] = v
			missing[i] = v > format.MissingThresholdFloat64
			raw[i] = int64(v)
		}
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidType, uint16(st))
	}

	// Value labels take precedence over the date interpretation; both only
	// apply to present cells.
	if set, ok := r.labelSets[r.vlNames[j]]; ok && r.vlNames[j] != "" && st.IsInteger() {
		return r.labelColumn(name, raw, missing, set)
	}

	switch r.timeKinds[j] {
	case format.TimeDate:
		vals := make([]time.Time, nrows)
		for i, v := range raw {
			if !missing[i] {
				vals[i] = format.DateFromDays(v)
			}
		}

		return frame.NewDateColumn(name, vals, missing)
	case format.TimeDateTime:
		vals := make([]time.Time, nrows)
		for i, v := range raw {
			if !missing[i] {
				vals[i] = format.TimeFromMillis(v)
			}
		}

		return frame.NewDateTimeColumn(name, vals, missing)
	}

	switch st {
	case format.TypeInt8:
		vals := make([]int8, nrows)
		for i, v := range raw {
			vals[i] = int8(v)
		}

		return frame.NewInt8Column(name, vals, missing)
	case format.TypeInt16:
		vals := make([]int16, nrows)
		for i, v := range raw {
			vals[i] = int16(v)
		}

		return frame.NewInt16Column(name, vals, missing)
	case format.TypeInt32:
		vals := make([]int32, nrows)
		for i, v := range raw {
			vals[i] = int32(v)
		}

		return frame.NewInt32Column(name, vals, missing)
	case format.TypeFloat32:
		return frame.NewFloat32Column(name, f32s, missing)
	default:
		return frame.NewFloat64Column(name, f64s, missing)
	}
}

// labelColumn maps labeled integer values into a categorical column. Level
// order is the ascending code order of the label set; values absent from
// the set pick up "(v)" levels in order of first occurrence.
func (r *Reader) labelColumn(name string, raw []int64, missing []bool, set map[int32]string) (*frame.Column, error) {
	setCodes := make([]int32, 0, len(set))
	for code := range set {
		setCodes = append(setCodes, code)
	}
	sort.Slice(setCodes, func(a, b int) bool { return setCodes[a] < setCodes[b] })

	levels := frame.NewLevels()
	byValue := make(map[int32]int32, len(set))
	for _, code := range setCodes {
		text := set[code]
		if r.keepOriginal {
			text = fmt.Sprintf("%d: %s", code, text)
		}
		byValue[code] = levels.Add(text)
	}

	codes := make([]int32, len(raw))
	for i, v := range raw {
		if missing[i] {
			continue
		}
		value := int32(v)
		lv, ok := byValue[value]
		if !ok {
			lv = levels.Add(fmt.Sprintf("(%d)", value))
			byValue[value] = lv
		}
		codes[i] = lv
	}

	return frame.NewCategoricalColumn(name, codes, levels, frame.KindString, missing)
}
