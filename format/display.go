package format

import (
	"fmt"
	"strings"
	"time"
)

// TimeKind classifies how a display format reinterprets a numeric column.
type TimeKind uint8

const (
	// TimePlain leaves the numeric value as-is.
	TimePlain TimeKind = iota
	// TimeDate interprets the value as days since 1960-01-01.
	TimeDate
	// TimeDateTime interprets the value as milliseconds since
	// 1960-01-01 00:00:00.
	TimeDateTime
)

// ClassifyDisplay returns the time interpretation a display format imposes
// on its column. Exactly "%d" or any "%td"-prefixed format is a calendar
// date; "%tc" or "%tC" prefixes are datetimes; everything else is plain.
func ClassifyDisplay(f string) TimeKind {
	switch {
	case f == "%d", strings.HasPrefix(f, "%td"):
		return TimeDate
	case strings.HasPrefix(f, "%tc"), strings.HasPrefix(f, "%tC"):
		return TimeDateTime
	default:
		return TimePlain
	}
}

// Display formats the encoder assigns by storage type.
const (
	DisplayDate     = "%tdNN-DD-CCYY"
	DisplayDateTime = "%tc"
	DisplayInt      = "%8.0g"
	DisplayFloat32  = "%6.2f"
	DisplayFloat64  = "%11.1f"
)

// DisplayString returns the display format for a fixed-length string of n
// bytes.
func DisplayString(n int) string {
	return fmt.Sprintf("%%-%ds", n)
}

// Epoch is the zero point of Stata's date and datetime encodings.
var Epoch = time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateFromDays converts a day offset from the epoch into a calendar date.
// The offset is applied by calendar arithmetic, so the result is always
// midnight UTC regardless of the offset's size.
func DateFromDays(days int64) time.Time {
	return Epoch.AddDate(0, 0, int(days))
}

// DaysFromDate converts a calendar date into its day offset from the epoch.
func DaysFromDate(d time.Time) int64 {
	return (d.Unix() - Epoch.Unix()) / 86400
}

// TimeFromMillis converts a millisecond offset from the epoch into a
// datetime.
func TimeFromMillis(ms int64) time.Time {
	return Epoch.Add(time.Duration(ms) * time.Millisecond)
}

// MillisFromTime converts a datetime into its millisecond offset from the
// epoch.
func MillisFromTime(t time.Time) int64 {
	return t.Sub(Epoch).Milliseconds()
}
