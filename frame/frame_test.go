package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/stata/errs"
)

func TestNewTable(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		a, err := NewInt32Column("a", []int32{1, 2, 3}, nil)
		require.NoError(t, err)
		b, err := NewFloat64Column("b", []float64{1.5, 2.5, 3.5}, nil)
		require.NoError(t, err)

		tbl, err := NewTable(a, b)
		require.NoError(t, err)
		require.Equal(t, 3, tbl.NumRows())
		require.Equal(t, 2, tbl.NumCols())
		require.Equal(t, []string{"a", "b"}, tbl.Names())

		col, err := tbl.Column("b")
		require.NoError(t, err)
		require.Same(t, b, col)
		require.Same(t, a, tbl.Col(0))
	})

	t.Run("Duplicate names", func(t *testing.T) {
		a, _ := NewInt32Column("x", []int32{1}, nil)
		b, _ := NewInt32Column("x", []int32{2}, nil)
		_, err := NewTable(a, b)
		require.ErrorIs(t, err, errs.ErrDuplicateColumnName)
	})

	t.Run("Length mismatch", func(t *testing.T) {
		a, _ := NewInt32Column("a", []int32{1, 2}, nil)
		b, _ := NewInt32Column("b", []int32{1}, nil)
		_, err := NewTable(a, b)
		require.ErrorIs(t, err, errs.ErrColumnLengthMismatch)
	})

	t.Run("Unknown column lookup", func(t *testing.T) {
		a, _ := NewInt32Column("a", []int32{1}, nil)
		tbl, err := NewTable(a)
		require.NoError(t, err)
		_, err = tbl.Column("nope")
		require.ErrorIs(t, err, errs.ErrUnknownColumn)
	})
}

func TestColumnBasics(t *testing.T) {
	col, err := NewInt16Column("n", []int16{4, 5}, []bool{false, true})
	require.NoError(t, err)
	require.Equal(t, KindInt16, col.Kind())
	require.Equal(t, 2, col.Len())
	require.False(t, col.IsMissing(0))
	require.True(t, col.IsMissing(1))

	vals, ok := col.Int16s()
	require.True(t, ok)
	require.Equal(t, []int16{4, 5}, vals)

	_, ok = col.Float64s()
	require.False(t, ok)

	col.SetLabel("count of things")
	require.Equal(t, "count of things", col.Label())
}

func TestColumnMaskLengthMismatch(t *testing.T) {
	_, err := NewInt8Column("x", []int8{1, 2, 3}, []bool{true})
	require.ErrorIs(t, err, errs.ErrColumnLengthMismatch)
}

func TestLevels(t *testing.T) {
	l := NewLevels()
	require.Equal(t, int32(0), l.Add("a"))
	require.Equal(t, int32(1), l.Add("b"))
	require.Equal(t, int32(0), l.Add("a")) // interned, not duplicated
	require.Equal(t, 2, l.Len())
	require.Equal(t, []string{"a", "b"}, l.Labels())

	code, ok := l.Lookup("b")
	require.True(t, ok)
	require.Equal(t, int32(1), code)

	_, ok = l.Lookup("zzz")
	require.False(t, ok)

	label, err := l.Label(0)
	require.NoError(t, err)
	require.Equal(t, "a", label)

	_, err = l.Label(9)
	require.ErrorIs(t, err, errs.ErrInvalidCategoryCode)
}

func TestCategoricalFromStrings(t *testing.T) {
	col, err := CategoricalFromStrings("g", []string{"a", "b", "a", "c"}, nil)
	require.NoError(t, err)
	require.Equal(t, KindCategorical, col.Kind())
	require.Equal(t, KindString, col.BaseKind())

	codes, ok := col.Codes()
	require.True(t, ok)
	require.Equal(t, []int32{0, 1, 0, 2}, codes)
	require.Equal(t, []string{"a", "b", "c"}, col.Levels().Labels())
}

func TestNewCategoricalColumn_BadCode(t *testing.T) {
	levels := LevelsFromLabels([]string{"x"})
	_, err := NewCategoricalColumn("g", []int32{0, 5}, levels, KindString, nil)
	require.ErrorIs(t, err, errs.ErrInvalidCategoryCode)
}

func TestTableAppend(t *testing.T) {
	t.Run("Plain columns", func(t *testing.T) {
		a1, _ := NewInt32Column("a", []int32{1, 2}, nil)
		b1, _ := NewStringColumn("b", []string{"x", "y"}, []bool{false, true})
		t1, err := NewTable(a1, b1)
		require.NoError(t, err)

		a2, _ := NewInt32Column("a", []int32{3}, nil)
		b2, _ := NewStringColumn("b", []string{"z"}, nil)
		t2, err := NewTable(a2, b2)
		require.NoError(t, err)

		require.NoError(t, t1.Append(t2))
		require.Equal(t, 3, t1.NumRows())

		vals, _ := t1.Col(0).Int32s()
		require.Equal(t, []int32{1, 2, 3}, vals)
		strs, _ := t1.Col(1).Strings()
		require.Equal(t, []string{"x", "y", "z"}, strs)
		require.True(t, t1.Col(1).IsMissing(1))
		require.False(t, t1.Col(1).IsMissing(2))
	})

	t.Run("Categorical remap", func(t *testing.T) {
		c1, err := CategoricalFromStrings("g", []string{"a", "b"}, nil)
		require.NoError(t, err)
		t1, err := NewTable(c1)
		require.NoError(t, err)

		// The second slab saw the levels in a different order.
		c2, err := CategoricalFromStrings("g", []string{"c", "a"}, nil)
		require.NoError(t, err)
		t2, err := NewTable(c2)
		require.NoError(t, err)

		require.NoError(t, t1.Append(t2))

		col := t1.Col(0)
		require.Equal(t, []string{"a", "b", "c"}, col.Levels().Labels())
		codes, _ := col.Codes()
		require.Equal(t, []int32{0, 1, 2, 0}, codes)
	})

	t.Run("Kind mismatch", func(t *testing.T) {
		a1, _ := NewInt32Column("a", []int32{1}, nil)
		t1, _ := NewTable(a1)
		a2, _ := NewFloat64Column("a", []float64{1}, nil)
		t2, _ := NewTable(a2)
		require.ErrorIs(t, t1.Append(t2), errs.ErrKindMismatch)
	})
}

func TestDateColumns(t *testing.T) {
	d := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	col, err := NewDateColumn("d", []time.Time{d}, nil)
	require.NoError(t, err)
	require.Equal(t, KindDate, col.Kind())

	vals, ok := col.Times()
	require.True(t, ok)
	require.Equal(t, d, vals[0])

	ts, err := NewDateTimeColumn("ts", []time.Time{d}, nil)
	require.NoError(t, err)
	require.Equal(t, KindDateTime, ts.Kind())
}
