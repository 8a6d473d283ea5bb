package section

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arloliu/stata/endian"
	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/internal/byteio"
)

// Supported dta format releases.
const (
	Release117 = 117 // Stata 13
	Release118 = 118 // Stata 14
)

// MapEntries is the fixed size of the <map> offset table.
const MapEntries = 14

// Positions within the offset map, in file order.
const (
	MapPosStart = iota
	MapPosMap
	MapPosVarTypes
	MapPosVarNames
	MapPosSortList
	MapPosFormats
	MapPosVLNames
	MapPosVarLabels
	MapPosChars
	MapPosData
	MapPosStrls
	MapPosValueLabels
	MapPosCloseTag
	MapPosEOF
)

// OffsetMap is the 14-entry i64 table that records the absolute offset of
// every section. The writer emits it zeroed and seeks back to fill it in
// once the body is complete.
type OffsetMap [MapEntries]int64

// Header holds the decoded dta header envelope and offset map.
type Header struct {
	Release      int
	Nvar         int
	RowCount     int
	DatasetLabel string
	Timestamp    string
	Map          OffsetMap
}

// TimestampLayout is the Go reference layout of the header timestamp
// ("dd uuu yyyy HH:MM", 17 bytes).
const TimestampLayout = "02 Jan 2006 15:04"

// ReadHeader decodes the magic/release envelope, validates the release and
// byte order, and reads the offset map that follows.
func ReadHeader(r *byteio.Reader) (*Header, error) {
	for _, tag := range []string{TagOpen, TagHeaderOpen, TagReleaseOpen} {
		if err := r.Expect(tag); err != nil {
			return nil, err
		}
	}

	h := &Header{}

	rel, err := r.Bytes(3)
	if err != nil {
		return nil, err
	}
	release, err := strconv.Atoi(string(rel))
	if err != nil {
		return nil, fmt.Errorf("%w: release %q is not numeric", errs.ErrFormat, string(rel))
	}
	if release != Release117 && release != Release118 {
		return nil, fmt.Errorf("%w: release %d", errs.ErrUnsupportedVersion, release)
	}
	h.Release = release

	if err := r.Expect(TagReleaseClose); err != nil {
		return nil, err
	}
	if err := r.Expect(TagByteOrderOpen); err != nil {
		return nil, err
	}
	marker, err := r.Bytes(3)
	if err != nil {
		return nil, err
	}
	switch string(marker) {
	case endian.MarkerLSF:
	case endian.MarkerMSF:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedEndian, endian.MarkerMSF)
	default:
		return nil, fmt.Errorf("%w: byte-order marker %q", errs.ErrFormat, string(marker))
	}
	if err := r.Expect(TagByteOrderClose); err != nil {
		return nil, err
	}

	if err := r.Expect(TagKOpen); err != nil {
		return nil, err
	}
	nvar, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	h.Nvar = int(nvar)
	if err := r.Expect(TagKClose); err != nil {
		return nil, err
	}

	if err := r.Expect(TagNOpen); err != nil {
		return nil, err
	}
	if h.Release == Release118 {
		n, err := r.Int64()
		if err != nil {
			return nil, err
		}
		h.RowCount = int(n)
	} else {
		n, err := r.Int32()
		if err != nil {
			return nil, err
		}
		h.RowCount = int(n)
	}
	if err := r.Expect(TagNClose); err != nil {
		return nil, err
	}

	if err := r.Expect(TagLabelOpen); err != nil {
		return nil, err
	}
	var labelLen int
	if h.Release == Release118 {
		n, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		labelLen = int(n)
	} else {
		n, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		labelLen = int(n)
	}
	label, err := r.Bytes(labelLen)
	if err != nil {
		return nil, err
	}
	h.DatasetLabel = string(label)
	if err := r.Expect(TagLabelClose); err != nil {
		return nil, err
	}

	if err := r.Expect(TagTimestampOpen); err != nil {
		return nil, err
	}
	tsLen, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	ts, err := r.Bytes(int(tsLen))
	if err != nil {
		return nil, err
	}
	h.Timestamp = string(ts)
	if err := r.Expect(TagTimestampClose); err != nil {
		return nil, err
	}
	if err := r.Expect(TagHeaderClose); err != nil {
		return nil, err
	}

	if err := r.Expect(TagMapOpen); err != nil {
		return nil, err
	}
	for i := range h.Map {
		h.Map[i], err = r.Int64()
		if err != nil {
			return nil, err
		}
	}
	if err := r.Expect(TagMapClose); err != nil {
		return nil, err
	}

	return h, nil
}

// WriteHeader emits a release 118, little-endian header for nvar variables
// and rows observations, with an empty dataset label and the given
// timestamp. The offset map is written as zeros; the returned position is
// where the 14 entries start, for the later fix-up.
func WriteHeader(w *byteio.Writer, nvar int, rows int, now time.Time) (mapPos int64, err error) {
	envelope := TagOpen + TagHeaderOpen +
		TagReleaseOpen + strconv.Itoa(Release118) + TagReleaseClose +
		TagByteOrderOpen + endian.MarkerLSF + TagByteOrderClose
	if err = w.Literal(envelope); err != nil {
		return 0, err
	}

	if err = w.Literal(TagKOpen); err != nil {
		return 0, err
	}
	if err = w.Uint16(uint16(nvar)); err != nil {
		return 0, err
	}
	if err = w.Literal(TagKClose + TagNOpen); err != nil {
		return 0, err
	}
	if err = w.Int64(int64(rows)); err != nil {
		return 0, err
	}
	if err = w.Literal(TagNClose + TagLabelOpen); err != nil {
		return 0, err
	}
	if err = w.Uint16(0); err != nil { // empty dataset label
		return 0, err
	}
	if err = w.Literal(TagLabelClose + TagTimestampOpen); err != nil {
		return 0, err
	}
	ts := now.Format(TimestampLayout)
	if err = w.Uint8(uint8(len(ts))); err != nil {
		return 0, err
	}
	if err = w.Literal(ts); err != nil {
		return 0, err
	}
	if err = w.Literal(TagTimestampClose + TagHeaderClose); err != nil {
		return 0, err
	}

	if err = w.Literal(TagMapOpen); err != nil {
		return 0, err
	}
	mapPos, err = w.Tell()
	if err != nil {
		return 0, err
	}
	for i := 0; i < MapEntries; i++ {
		if err = w.Int64(0); err != nil {
			return 0, err
		}
	}
	if err = w.Literal(TagMapClose); err != nil {
		return 0, err
	}

	return mapPos, nil
}

// WriteMap overwrites the zeroed offset table at mapPos and restores the
// sink position afterwards.
func WriteMap(w *byteio.Writer, mapPos int64, m OffsetMap) error {
	end, err := w.Tell()
	if err != nil {
		return err
	}
	if err := w.Seek(mapPos); err != nil {
		return err
	}
	for _, off := range m {
		if err := w.Int64(off); err != nil {
			return err
		}
	}

	return w.Seek(end)
}
