// Package format defines the on-disk type system of the Stata dta format:
// storage type codes, per-cell byte widths, missing-value sentinels, and the
// display-format rules that turn raw numbers into dates and datetimes.
package format

import "fmt"

// StorageType is the 16-bit on-disk type code of a dta column.
//
// Codes 1 through 2045 denote a fixed-length string of that many bytes. The
// remaining valid codes are the named constants below. Every other value is
// invalid.
type StorageType uint16

const (
	TypeStrL    StorageType = 32768 // variable-length string reference
	TypeFloat64 StorageType = 65526
	TypeFloat32 StorageType = 65527
	TypeInt32   StorageType = 65528
	TypeInt16   StorageType = 65529
	TypeInt8    StorageType = 65530

	// MaxStrLen is the widest fixed-string storage type the writer emits.
	// A column that would need 2045 bytes or more is excluded on write,
	// since this writer does not produce strLs.
	MaxStrLen = 2044
)

// Valid reports whether t is a recognized storage type code.
func (t StorageType) Valid() bool {
	if t >= 1 && t <= 2045 {
		return true
	}
	switch t {
	case TypeStrL, TypeFloat64, TypeFloat32, TypeInt32, TypeInt16, TypeInt8:
		return true
	default:
		return false
	}
}

// IsFixedString reports whether t denotes a fixed-length string cell.
func (t StorageType) IsFixedString() bool {
	return t >= 1 && t <= 2045
}

// IsInteger reports whether t is one of the integer storage types. Value
// labels attach to integer columns only.
func (t StorageType) IsInteger() bool {
	return t == TypeInt8 || t == TypeInt16 || t == TypeInt32
}

// CellWidth returns the number of bytes a single cell of type t occupies in
// the row-major data body. The strL reference cell is 8 bytes in both
// supported releases.
func (t StorageType) CellWidth() int {
	switch {
	case t.IsFixedString():
		return int(t)
	case t == TypeStrL, t == TypeFloat64:
		return 8
	case t == TypeFloat32, t == TypeInt32:
		return 4
	case t == TypeInt16:
		return 2
	case t == TypeInt8:
		return 1
	default:
		return 0
	}
}

func (t StorageType) String() string {
	switch {
	case t.IsFixedString():
		return fmt.Sprintf("str%d", uint16(t))
	case t == TypeStrL:
		return "strL"
	case t == TypeFloat64:
		return "double"
	case t == TypeFloat32:
		return "float"
	case t == TypeInt32:
		return "long"
	case t == TypeInt16:
		return "int"
	case t == TypeInt8:
		return "byte"
	default:
		return fmt.Sprintf("invalid(%d)", uint16(t))
	}
}

// Missing-value thresholds. A decoded numeric cell strictly greater than the
// threshold for its storage type denotes a missing value. The thresholds
// come from the dta specification; Stata reserves the range above each for
// its "." and extended missing codes.
const (
	MissingThresholdInt8    = int8(100)
	MissingThresholdInt16   = int16(32740)
	MissingThresholdInt32   = int32(2147483620)
	MissingThresholdFloat32 = float32(1.70141173319e38)
	MissingThresholdFloat64 = float64(8.9884656743e307)
)

// Canonical sentinels the encoder writes for missing cells. Each is the
// smallest conventional value past the corresponding threshold.
const (
	MissingInt8    = int8(101)
	MissingInt16   = int16(32741)
	MissingInt32   = int32(2147483621)
	MissingFloat32 = float32(1.702e38)
	MissingFloat64 = float64(8.989e307)
)
