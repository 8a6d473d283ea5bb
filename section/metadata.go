package section

import (
	"fmt"
	"strconv"

	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/format"
	"github.com/arloliu/stata/internal/byteio"
)

// Fixed metadata field widths by release. Each field is null-padded on
// write and null-terminated on read.
func varNameWidth(release int) int {
	if release == Release118 {
		return 129
	}

	return 33
}

func formatWidth(release int) int {
	if release == Release118 {
		return 57
	}

	return 49
}

func vlNameWidth(release int) int {
	if release == Release118 {
		return 129
	}

	return 33
}

func varLabelWidth(release int) int {
	if release == Release118 {
		return 321
	}

	return 81
}

// ReadVarTypes decodes the <variable_types> section: nvar 16-bit storage
// type codes, each validated against the recognized set.
func ReadVarTypes(r *byteio.Reader, release, nvar int) ([]format.StorageType, error) {
	if err := r.Expect(TagVarTypesOpen); err != nil {
		return nil, err
	}
	types := make([]format.StorageType, nvar)
	for i := range types {
		code, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		st := format.StorageType(code)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %d for variable %d", errs.ErrInvalidType, code, i)
		}
		types[i] = st
	}
	if err := r.Expect(TagVarTypesClose); err != nil {
		return nil, err
	}

	return types, nil
}

// WriteVarTypes emits the <variable_types> section.
func WriteVarTypes(w *byteio.Writer, types []format.StorageType) error {
	if err := w.Literal(TagVarTypesOpen); err != nil {
		return err
	}
	for _, st := range types {
		if err := w.Uint16(uint16(st)); err != nil {
			return err
		}
	}

	return w.Literal(TagVarTypesClose)
}

func readStringVector(r *byteio.Reader, open, closeTag string, width, nvar int) ([]string, error) {
	if err := r.Expect(open); err != nil {
		return nil, err
	}
	out := make([]string, nvar)
	for i := range out {
		s, err := r.FixedString(width)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	if err := r.Expect(closeTag); err != nil {
		return nil, err
	}

	return out, nil
}

func writeStringVector(w *byteio.Writer, open, closeTag string, width int, values []string) error {
	if err := w.Literal(open); err != nil {
		return err
	}
	for _, v := range values {
		if err := w.PaddedString(v, width); err != nil {
			return err
		}
	}

	return w.Literal(closeTag)
}

// ReadVarNames decodes the <varnames> section.
func ReadVarNames(r *byteio.Reader, release, nvar int) ([]string, error) {
	return readStringVector(r, TagVarNamesOpen, TagVarNamesClose, varNameWidth(release), nvar)
}

// WriteVarNames emits the <varnames> section at release 118 width.
func WriteVarNames(w *byteio.Writer, names []string) error {
	return writeStringVector(w, TagVarNamesOpen, TagVarNamesClose, varNameWidth(Release118), names)
}

// SkipSortList consumes the <sortlist> section: nvar+1 16-bit entries the
// codec does not interpret.
func SkipSortList(r *byteio.Reader, release, nvar int) error {
	if err := r.Expect(TagSortListOpen); err != nil {
		return err
	}
	if err := r.Skip(int64(2 * (nvar + 1))); err != nil {
		return err
	}

	return r.Expect(TagSortListClose)
}

// WriteSortList emits an all-zero <sortlist> section (no sort order).
func WriteSortList(w *byteio.Writer, nvar int) error {
	if err := w.Literal(TagSortListOpen); err != nil {
		return err
	}
	if err := w.Bytes(make([]byte, 2*(nvar+1))); err != nil {
		return err
	}

	return w.Literal(TagSortListClose)
}

// ReadFormats decodes the <formats> section.
func ReadFormats(r *byteio.Reader, release, nvar int) ([]string, error) {
	return readStringVector(r, TagFormatsOpen, TagFormatsClose, formatWidth(release), nvar)
}

// WriteFormats emits the <formats> section at release 118 width.
func WriteFormats(w *byteio.Writer, formats []string) error {
	return writeStringVector(w, TagFormatsOpen, TagFormatsClose, formatWidth(Release118), formats)
}

// ReadValueLabelNames decodes the <value_label_names> section; an empty
// entry means the variable references no label set.
func ReadValueLabelNames(r *byteio.Reader, release, nvar int) ([]string, error) {
	return readStringVector(r, TagVLNamesOpen, TagVLNamesClose, vlNameWidth(release), nvar)
}

// WriteValueLabelNames emits the <value_label_names> section.
func WriteValueLabelNames(w *byteio.Writer, names []string) error {
	return writeStringVector(w, TagVLNamesOpen, TagVLNamesClose, vlNameWidth(Release118), names)
}

// ReadVarLabels decodes the <variable_labels> section.
func ReadVarLabels(r *byteio.Reader, release, nvar int) ([]string, error) {
	return readStringVector(r, TagVarLabelsOpen, TagVarLabelsClose, varLabelWidth(release), nvar)
}

// WriteVarLabels emits the <variable_labels> section.
func WriteVarLabels(w *byteio.Writer, labels []string) error {
	return writeStringVector(w, TagVarLabelsOpen, TagVarLabelsClose, varLabelWidth(Release118), labels)
}

// SkipCharacteristics consumes the <characteristics> section without
// interpreting its <ch> blocks.
func SkipCharacteristics(r *byteio.Reader) error {
	if err := r.Expect(TagCharsOpen); err != nil {
		return err
	}
	for {
		peek, err := r.Peek(len(TagChOpen))
		if err != nil {
			return err
		}
		if string(peek) != TagChOpen {
			break
		}
		if err := r.Expect(TagChOpen); err != nil {
			return err
		}
		length, err := r.Uint32()
		if err != nil {
			return err
		}
		if err := r.Skip(int64(length)); err != nil {
			return err
		}
		if err := r.Expect(TagChClose); err != nil {
			return err
		}
	}

	return r.Expect(TagCharsClose)
}

// WriteEmptyCharacteristics emits an empty <characteristics> section.
func WriteEmptyCharacteristics(w *byteio.Writer) error {
	return w.Literal(TagCharsOpen + TagCharsClose)
}

func legalNameByte(b byte, first bool) bool {
	if b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') {
		return true
	}

	return !first && b >= '0' && b <= '9'
}

// MaxNameLen is the longest variable name the writer produces. The 129-byte
// field reserves one byte for the terminating null.
const MaxNameLen = 128

// SanitizeNames rewrites column names into legal, unique Stata variable
// names. Illegal characters become underscores (an illegal first character
// as well), over-long names are truncated, and collisions pick up _1, _2, …
// suffixes until unique.
func SanitizeNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))

	for i, name := range names {
		b := []byte(name)
		if len(b) == 0 {
			b = []byte{'_'}
		}
		if len(b) > MaxNameLen {
			b = b[:MaxNameLen]
		}
		for j := range b {
			if !legalNameByte(b[j], j == 0) {
				b[j] = '_'
			}
		}

		candidate := string(b)
		for suffix := 1; seen[candidate]; suffix++ {
			tail := "_" + strconv.Itoa(suffix)
			base := string(b)
			if len(base)+len(tail) > MaxNameLen {
				base = base[:MaxNameLen-len(tail)]
			}
			candidate = base + tail
		}
		seen[candidate] = true
		out[i] = candidate
	}

	return out
}
