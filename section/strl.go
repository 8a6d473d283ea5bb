package section

import (
	"fmt"

	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/internal/byteio"
)

// StrL flag bytes: how a GSO payload is stored.
const (
	StrlFlagBinary = 129 // binary-safe payload, length-delimited
	StrlFlagText   = 130 // null-terminated text
)

// StrlRef addresses one entry of the strL heap by its owning variable and
// offset. The zero value (0,0) denotes a missing cell.
type StrlRef struct {
	V uint32
	O uint64
}

// IsMissing reports whether the reference denotes a missing cell.
func (ref StrlRef) IsMissing() bool {
	return ref.V == 0 && ref.O == 0
}

// ReadStrls decodes the <strls> section into a heap of (v,o) → payload.
// Text payloads (flag 130) are trimmed at their terminating null; binary
// payloads (flag 129) are kept verbatim.
func ReadStrls(r *byteio.Reader, release int) (map[StrlRef]string, error) {
	if err := r.Expect(TagStrlsOpen); err != nil {
		return nil, err
	}

	heap := make(map[StrlRef]string)
	for {
		peek, err := r.Peek(len(TagGSO))
		if err != nil {
			return nil, err
		}
		if string(peek) != TagGSO {
			break
		}
		if err := r.Expect(TagGSO); err != nil {
			return nil, err
		}

		var ref StrlRef
		if ref.V, err = r.Uint32(); err != nil {
			return nil, err
		}
		if release == Release118 {
			if ref.O, err = r.Uint64(); err != nil {
				return nil, err
			}
		} else {
			o, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			ref.O = uint64(o)
		}

		flag, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		length, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		payload, err := r.Bytes(int(length))
		if err != nil {
			return nil, err
		}

		switch flag {
		case StrlFlagText:
			heap[ref] = string(byteio.TrimAtNul(payload))
		case StrlFlagBinary:
			heap[ref] = string(payload)
		default:
			return nil, fmt.Errorf("%w: %d at (%d,%d)", errs.ErrInvalidStrlFlag, flag, ref.V, ref.O)
		}
	}

	if err := r.Expect(TagStrlsClose); err != nil {
		return nil, err
	}

	return heap, nil
}

// WriteEmptyStrls emits an empty <strls> section. This writer never
// produces strL payloads: columns that would need them are excluded during
// preparation instead.
func WriteEmptyStrls(w *byteio.Writer) error {
	return w.Literal(TagStrlsOpen + TagStrlsClose)
}
