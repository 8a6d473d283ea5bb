// Package frame provides the in-memory table the dta codec decodes into and
// encodes from: ordered, named, equal-length columns of a closed set of
// element kinds, each cell optionally missing.
package frame

import (
	"fmt"
	"time"

	"github.com/arloliu/stata/errs"
)

// Kind identifies the element type of a column. Columns are a tagged
// variant: the kind determines which typed slice backs the column, and
// every consumer switches exhaustively over it.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindDate
	KindDateTime
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindCategorical:
		return "categorical"
	default:
		return "invalid"
	}
}

// Column is a fixed-kind sequence of values with an optional missing mask
// and an optional variable label. The backing slice is not copied by the
// constructors; callers hand ownership to the column.
type Column struct {
	name    string
	label   string
	kind    Kind
	data    any    // typed slice per kind; []int32 codes for categorical
	missing []bool // nil means no cell is missing; a non-nil mask may be all false
	levels  *Levels
	base    Kind // categorical only: the kind of the level pool
}

func newColumn(name string, kind Kind, data any, n int, missing []bool) (*Column, error) {
	if missing != nil && len(missing) != n {
		return nil, fmt.Errorf("%w: column %q has %d values but %d missing flags",
			errs.ErrColumnLengthMismatch, name, n, len(missing))
	}

	return &Column{name: name, kind: kind, data: data, missing: missing}, nil
}

// NewInt8Column creates an int8 column.
func NewInt8Column(name string, data []int8, missing []bool) (*Column, error) {
	return newColumn(name, KindInt8, data, len(data), missing)
}

// NewInt16Column creates an int16 column.
func NewInt16Column(name string, data []int16, missing []bool) (*Column, error) {
	return newColumn(name, KindInt16, data, len(data), missing)
}

// NewInt32Column creates an int32 column.
func NewInt32Column(name string, data []int32, missing []bool) (*Column, error) {
	return newColumn(name, KindInt32, data, len(data), missing)
}

// NewInt64Column creates an int64 column.
func NewInt64Column(name string, data []int64, missing []bool) (*Column, error) {
	return newColumn(name, KindInt64, data, len(data), missing)
}

// NewFloat32Column creates a float32 column.
func NewFloat32Column(name string, data []float32, missing []bool) (*Column, error) {
	return newColumn(name, KindFloat32, data, len(data), missing)
}

// NewFloat64Column creates a float64 column.
func NewFloat64Column(name string, data []float64, missing []bool) (*Column, error) {
	return newColumn(name, KindFloat64, data, len(data), missing)
}

// NewBoolColumn creates a bool column.
func NewBoolColumn(name string, data []bool, missing []bool) (*Column, error) {
	return newColumn(name, KindBool, data, len(data), missing)
}

// NewStringColumn creates a variable-length text column.
func NewStringColumn(name string, data []string, missing []bool) (*Column, error) {
	return newColumn(name, KindString, data, len(data), missing)
}

// NewDateColumn creates a calendar date column.
func NewDateColumn(name string, data []time.Time, missing []bool) (*Column, error) {
	return newColumn(name, KindDate, data, len(data), missing)
}

// NewDateTimeColumn creates a datetime column.
func NewDateTimeColumn(name string, data []time.Time, missing []bool) (*Column, error) {
	return newColumn(name, KindDateTime, data, len(data), missing)
}

// NewCategoricalColumn creates a categorical column over an existing level
// pool. Codes index the pool; base is the element kind of the pool values
// (KindString for label sets, a numeric kind for numeric-backed pools).
func NewCategoricalColumn(name string, codes []int32, levels *Levels, base Kind, missing []bool) (*Column, error) {
	col, err := newColumn(name, KindCategorical, codes, len(codes), missing)
	if err != nil {
		return nil, err
	}
	for i, c := range codes {
		if missing != nil && missing[i] {
			continue
		}
		if c < 0 || int(c) >= levels.Len() {
			return nil, fmt.Errorf("%w: code %d at row %d, pool has %d levels",
				errs.ErrInvalidCategoryCode, c, i, levels.Len())
		}
	}
	col.levels = levels
	col.base = base

	return col, nil
}

// CategoricalFromStrings pools a string slice into a categorical column.
// Levels are created in order of first occurrence.
func CategoricalFromStrings(name string, values []string, missing []bool) (*Column, error) {
	levels := NewLevels()
	codes := make([]int32, len(values))
	for i, v := range values {
		if missing != nil && missing[i] {
			continue
		}
		codes[i] = levels.Add(v)
	}

	return NewCategoricalColumn(name, codes, levels, KindString, missing)
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Label returns the variable label attached to the column, possibly empty.
func (c *Column) Label() string { return c.label }

// SetLabel attaches a variable label to the column.
func (c *Column) SetLabel(label string) { c.label = label }

// Kind returns the element kind.
func (c *Column) Kind() Kind { return c.kind }

// BaseKind returns the level pool kind of a categorical column, and
// KindInvalid for every other kind.
func (c *Column) BaseKind() Kind {
	if c.kind != KindCategorical {
		return KindInvalid
	}

	return c.base
}

// Len returns the number of cells.
func (c *Column) Len() int {
	switch d := c.data.(type) {
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []bool:
		return len(d)
	case []string:
		return len(d)
	case []time.Time:
		return len(d)
	default:
		return 0
	}
}

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool {
	return c.missing != nil && c.missing[i]
}

// MissingMask returns the missing mask. A nil mask means no cell is
// missing; a non-nil mask may still have every entry false.
func (c *Column) MissingMask() []bool { return c.missing }

// Levels returns the level pool of a categorical column, nil otherwise.
func (c *Column) Levels() *Levels { return c.levels }

// Int8s returns the backing slice of an int8 column.
func (c *Column) Int8s() ([]int8, bool) {
	d, ok := c.data.([]int8)
	return d, ok && c.kind == KindInt8
}

// Int16s returns the backing slice of an int16 column.
func (c *Column) Int16s() ([]int16, bool) {
	d, ok := c.data.([]int16)
	return d, ok && c.kind == KindInt16
}

// Int32s returns the backing slice of an int32 column.
func (c *Column) Int32s() ([]int32, bool) {
	d, ok := c.data.([]int32)
	return d, ok && c.kind == KindInt32
}

// Int64s returns the backing slice of an int64 column.
func (c *Column) Int64s() ([]int64, bool) {
	d, ok := c.data.([]int64)
	return d, ok && c.kind == KindInt64
}

// Float32s returns the backing slice of a float32 column.
func (c *Column) Float32s() ([]float32, bool) {
	d, ok := c.data.([]float32)
	return d, ok && c.kind == KindFloat32
}

// Float64s returns the backing slice of a float64 column.
func (c *Column) Float64s() ([]float64, bool) {
	d, ok := c.data.([]float64)
	return d, ok && c.kind == KindFloat64
}

// Bools returns the backing slice of a bool column.
func (c *Column) Bools() ([]bool, bool) {
	d, ok := c.data.([]bool)
	return d, ok && c.kind == KindBool
}

// Strings returns the backing slice of a string column.
func (c *Column) Strings() ([]string, bool) {
	d, ok := c.data.([]string)
	return d, ok && c.kind == KindString
}

// Times returns the backing slice of a date or datetime column.
func (c *Column) Times() ([]time.Time, bool) {
	d, ok := c.data.([]time.Time)
	return d, ok && (c.kind == KindDate || c.kind == KindDateTime)
}

// Codes returns the code slice of a categorical column.
func (c *Column) Codes() ([]int32, bool) {
	d, ok := c.data.([]int32)
	return d, ok && c.kind == KindCategorical
}

// append concatenates other onto c in place. Kinds must match; categorical
// codes are remapped through the level labels so differing pools merge.
func (c *Column) append(other *Column) error {
	if c.kind != other.kind {
		return fmt.Errorf("%w: cannot append %s to %s column %q",
			errs.ErrKindMismatch, other.kind, c.kind, c.name)
	}

	n, m := c.Len(), other.Len()
	if c.missing != nil || other.missing != nil {
		merged := make([]bool, n+m)
		copy(merged, c.missing)
		copy(merged[n:], other.missing)
		c.missing = merged
	}

	switch d := c.data.(type) {
	case []int8:
		o, _ := other.data.([]int8)
		c.data = append(d, o...)
	case []int16:
		o, _ := other.data.([]int16)
		c.data = append(d, o...)
	case []int32:
		o, _ := other.data.([]int32)
		if c.kind == KindCategorical {
			remapped, err := c.levels.remap(o, other.levels, other.missing)
			if err != nil {
				return err
			}
			o = remapped
		}
		c.data = append(d, o...)
	case []int64:
		o, _ := other.data.([]int64)
		c.data = append(d, o...)
	case []float32:
		o, _ := other.data.([]float32)
		c.data = append(d, o...)
	case []float64:
		o, _ := other.data.([]float64)
		c.data = append(d, o...)
	case []bool:
		o, _ := other.data.([]bool)
		c.data = append(d, o...)
	case []string:
		o, _ := other.data.([]string)
		c.data = append(d, o...)
	case []time.Time:
		o, _ := other.data.([]time.Time)
		c.data = append(d, o...)
	}

	return nil
}
