package section

import (
	"fmt"

	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/internal/byteio"
)

// LabelSet is one named value-label dictionary prepared for writing. Texts
// are indexed by their integer code: code k maps to Texts[k], so the codes
// emitted are 0..len(Texts)-1 in ascending order.
type LabelSet struct {
	Name  string
	Texts []string
}

// ReadValueLabels decodes the <value_labels> section into a dictionary of
// set name → (code → text). The section may hold any number of <lbl>
// records, including none.
func ReadValueLabels(r *byteio.Reader, release int) (map[string]map[int32]string, error) {
	if err := r.Expect(TagValueLabelsOpen); err != nil {
		return nil, err
	}

	sets := make(map[string]map[int32]string)
	for {
		peek, err := r.Peek(len(TagLblOpen))
		if err != nil {
			return nil, err
		}
		if string(peek) != TagLblOpen {
			break
		}
		name, labels, err := readLabelRecord(r, release)
		if err != nil {
			return nil, err
		}
		sets[name] = labels
	}

	if err := r.Expect(TagValueLabelsClose); err != nil {
		return nil, err
	}

	return sets, nil
}

func readLabelRecord(r *byteio.Reader, release int) (string, map[int32]string, error) {
	if err := r.Expect(TagLblOpen); err != nil {
		return "", nil, err
	}
	if _, err := r.Int32(); err != nil { // record length, implied by the counts below
		return "", nil, err
	}
	name, err := r.FixedString(vlNameWidth(release))
	if err != nil {
		return "", nil, err
	}
	if err := r.Skip(3); err != nil { // padding
		return "", nil, err
	}

	n, err := r.Int32()
	if err != nil {
		return "", nil, err
	}
	textLen, err := r.Int32()
	if err != nil {
		return "", nil, err
	}
	if n < 0 || textLen < 0 {
		return "", nil, fmt.Errorf("%w: label set %q has %d entries, %d text bytes",
			errs.ErrFormat, name, n, textLen)
	}

	offsets := make([]int32, n)
	for i := range offsets {
		if offsets[i], err = r.Int32(); err != nil {
			return "", nil, err
		}
	}
	values := make([]int32, n)
	for i := range values {
		if values[i], err = r.Int32(); err != nil {
			return "", nil, err
		}
	}
	text, err := r.Bytes(int(textLen))
	if err != nil {
		return "", nil, err
	}

	labels := make(map[int32]string, n)
	for i := int32(0); i < n; i++ {
		off := offsets[i]
		if off < 0 || off >= textLen {
			return "", nil, fmt.Errorf("%w: label set %q offset %d outside %d-byte text block",
				errs.ErrFormat, name, off, textLen)
		}
		labels[values[i]] = string(byteio.TrimAtNul(text[off:]))
	}

	if err := r.Expect(TagLblClose); err != nil {
		return "", nil, err
	}

	return name, labels, nil
}

// WriteValueLabels emits the <value_labels> section holding the given sets.
// Each set's codes are its text positions, ascending from zero; every text
// is written null-terminated into the record's text block.
func WriteValueLabels(w *byteio.Writer, sets []LabelSet) error {
	if err := w.Literal(TagValueLabelsOpen); err != nil {
		return err
	}

	for _, set := range sets {
		if err := writeLabelRecord(w, set); err != nil {
			return err
		}
	}

	return w.Literal(TagValueLabelsClose)
}

func writeLabelRecord(w *byteio.Writer, set LabelSet) error {
	n := len(set.Texts)
	textLen := 0
	for _, t := range set.Texts {
		textLen += len(t) + 1
	}

	if err := w.Literal(TagLblOpen); err != nil {
		return err
	}
	// Record length covers the two counts, both vectors and the text block.
	if err := w.Int32(int32(8 + 8*n + textLen)); err != nil {
		return err
	}
	if err := w.PaddedString(set.Name, vlNameWidth(Release118)); err != nil {
		return err
	}
	if err := w.Bytes([]byte{0, 0, 0}); err != nil {
		return err
	}
	if err := w.Int32(int32(n)); err != nil {
		return err
	}
	if err := w.Int32(int32(textLen)); err != nil {
		return err
	}

	off := int32(0)
	for _, t := range set.Texts {
		if err := w.Int32(off); err != nil {
			return err
		}
		off += int32(len(t) + 1)
	}
	for code := 0; code < n; code++ {
		if err := w.Int32(int32(code)); err != nil {
			return err
		}
	}
	for _, t := range set.Texts {
		if err := w.Literal(t); err != nil {
			return err
		}
		if err := w.Uint8(0); err != nil {
			return err
		}
	}

	return w.Literal(TagLblClose)
}
