package dta

import (
	"fmt"

	"github.com/arloliu/stata/format"
	"github.com/arloliu/stata/frame"
	"github.com/arloliu/stata/section"
)

// columnPlan is the write-side decision for one column: its storage type,
// display format, and value-label set when one is emitted.
type columnPlan struct {
	col     *frame.Column
	storage format.StorageType
	display string
	labels  *section.LabelSet // nil when the column references no label set
}

// Bounds for narrowing int64 columns into the dta long type. The upper
// bound leaves the sentinel range free.
const (
	int64NarrowMin = -2147483647
	int64NarrowMax = 2147483620
)

// prepare decides a storage type per column, in declaration order. Columns
// the format cannot represent are dropped and reported through report; the
// remaining plans keep their original relative order. Label sets are named
// after the 1-based position of their column in the input table.
func prepare(t *frame.Table, report func(col *frame.Column, reason string)) []columnPlan {
	plans := make([]columnPlan, 0, t.NumCols())

	for i, col := range t.Columns() {
		plan, reason := planColumn(col, i+1)
		if reason != "" {
			report(col, reason)
			continue
		}
		plans = append(plans, plan)
	}

	return plans
}

func planColumn(col *frame.Column, position int) (columnPlan, string) {
	plan := columnPlan{col: col}

	switch col.Kind() {
	case frame.KindCategorical:
		return planCategorical(col, position)

	case frame.KindBool, frame.KindInt8:
		plan.storage = format.TypeInt8
		plan.display = format.DisplayInt

	case frame.KindInt16:
		plan.storage = format.TypeInt16
		plan.display = format.DisplayInt

	case frame.KindInt32:
		plan.storage = format.TypeInt32
		plan.display = format.DisplayInt

	case frame.KindInt64:
		vals, _ := col.Int64s()
		for i, v := range vals {
			if col.IsMissing(i) {
				continue
			}
			if v < int64NarrowMin || v > int64NarrowMax {
				return plan, fmt.Sprintf("int64 value %d does not fit the dta long type", v)
			}
		}
		plan.storage = format.TypeInt32
		plan.display = format.DisplayInt

	case frame.KindFloat32:
		plan.storage = format.TypeFloat32
		plan.display = format.DisplayFloat32

	case frame.KindFloat64:
		plan.storage = format.TypeFloat64
		plan.display = format.DisplayFloat64

	case frame.KindDate:
		plan.storage = format.TypeInt32
		plan.display = format.DisplayDate

	case frame.KindDateTime:
		plan.storage = format.TypeFloat64
		plan.display = format.DisplayDateTime

	case frame.KindString:
		vals, _ := col.Strings()
		maxLen := 0
		for i, v := range vals {
			if col.IsMissing(i) {
				continue
			}
			if len(v) > maxLen {
				maxLen = len(v)
			}
		}
		// One extra byte for a trailing null; at 2045 the column would need
		// a strL, which this writer does not emit.
		width := maxLen + 1
		if width >= 2045 {
			return plan, fmt.Sprintf("text of %d bytes exceeds the fixed-string limit", maxLen)
		}
		plan.storage = format.StorageType(width)
		plan.display = format.DisplayString(width)

	default:
		return plan, fmt.Sprintf("unsupported element type %s", col.Kind())
	}

	return plan, ""
}

func planCategorical(col *frame.Column, position int) (columnPlan, string) {
	plan := columnPlan{col: col}

	switch col.BaseKind() {
	case frame.KindString:
		// Textual pools become long codes with an attached label set.
		plan.storage = format.TypeInt32
		plan.display = format.DisplayInt
		plan.labels = &section.LabelSet{
			Name:  fmt.Sprintf("fmt%d", position),
			Texts: col.Levels().Labels(),
		}
	case frame.KindInt8:
		plan.storage = format.TypeInt8
		plan.display = format.DisplayInt
	case frame.KindInt16:
		plan.storage = format.TypeInt16
		plan.display = format.DisplayInt
	case frame.KindInt32:
		plan.storage = format.TypeInt32
		plan.display = format.DisplayInt
	case frame.KindFloat32:
		plan.storage = format.TypeFloat32
		plan.display = format.DisplayFloat32
	case frame.KindFloat64:
		plan.storage = format.TypeFloat64
		plan.display = format.DisplayFloat64
	default:
		return plan, fmt.Sprintf("unsupported categorical base type %s", col.BaseKind())
	}

	return plan, ""
}
