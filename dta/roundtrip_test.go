package dta

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/stata/errs"
	"github.com/arloliu/stata/format"
	"github.com/arloliu/stata/frame"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "dta-*.dta")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return f
}

func writeTable(t *testing.T, tbl *frame.Table) *os.File {
	t.Helper()
	f := tempFile(t)
	w, err := NewWriter(f, WithVerbose(false))
	require.NoError(t, err)
	require.NoError(t, w.Write(tbl))

	return f
}

func readBack(t *testing.T, f *os.File, opts ...ReaderOption) *frame.Table {
	t.Helper()
	r, err := NewReader(f, opts...)
	require.NoError(t, err)
	tbl, err := r.Read()
	require.NoError(t, err)

	return tbl
}

func writeRead(t *testing.T, tbl *frame.Table, opts ...ReaderOption) *frame.Table {
	t.Helper()
	return readBack(t, writeTable(t, tbl), opts...)
}

func TestRoundTrip_Int8(t *testing.T) {
	col, err := frame.NewInt8Column("x", []int8{1, 2, 0, 100}, []bool{false, false, true, false})
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	got := writeRead(t, tbl)
	require.Equal(t, 4, got.NumRows())

	out := got.Col(0)
	require.Equal(t, "x", out.Name())
	require.Equal(t, frame.KindInt8, out.Kind())
	vals, ok := out.Int8s()
	require.True(t, ok)
	require.Equal(t, int8(1), vals[0])
	require.Equal(t, int8(2), vals[1])
	require.Equal(t, int8(100), vals[3])
	require.True(t, out.IsMissing(2))
	require.False(t, out.IsMissing(3))
}

func TestRoundTrip_Numerics(t *testing.T) {
	i16, err := frame.NewInt16Column("a", []int16{-3, 32740, 0}, []bool{false, false, true})
	require.NoError(t, err)
	i32, err := frame.NewInt32Column("b", []int32{-2147483647, 2147483620, 0}, []bool{false, false, true})
	require.NoError(t, err)
	f32, err := frame.NewFloat32Column("c", []float32{1.5, -0.25, 0}, []bool{false, false, true})
	require.NoError(t, err)
	f64, err := frame.NewFloat64Column("d", []float64{3.14159, -1e100, 0}, []bool{false, false, true})
	require.NoError(t, err)
	tbl, err := frame.NewTable(i16, i32, f32, f64)
	require.NoError(t, err)

	got := writeRead(t, tbl)

	a, _ := got.Col(0).Int16s()
	require.Equal(t, int16(-3), a[0])
	require.Equal(t, int16(32740), a[1])
	require.True(t, got.Col(0).IsMissing(2))

	b, _ := got.Col(1).Int32s()
	require.Equal(t, int32(-2147483647), b[0])
	require.Equal(t, int32(2147483620), b[1])
	require.True(t, got.Col(1).IsMissing(2))

	c, _ := got.Col(2).Float32s()
	require.Equal(t, float32(1.5), c[0])
	require.Equal(t, float32(-0.25), c[1])
	require.True(t, got.Col(2).IsMissing(2))

	d, _ := got.Col(3).Float64s()
	require.Equal(t, 3.14159, d[0])
	require.Equal(t, -1e100, d[1])
	require.True(t, got.Col(3).IsMissing(2))
}

func TestRoundTrip_Bool(t *testing.T) {
	col, err := frame.NewBoolColumn("flag", []bool{true, false, false}, []bool{false, false, true})
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	got := writeRead(t, tbl)
	vals, ok := got.Col(0).Int8s()
	require.True(t, ok)
	require.Equal(t, int8(1), vals[0])
	require.Equal(t, int8(0), vals[1])
	require.True(t, got.Col(0).IsMissing(2))
}

func TestRoundTrip_Int64Narrowing(t *testing.T) {
	col, err := frame.NewInt64Column("n", []int64{-2147483647, 2147483620, 42}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	got := writeRead(t, tbl)
	require.Equal(t, frame.KindInt32, got.Col(0).Kind())
	vals, _ := got.Col(0).Int32s()
	require.Equal(t, []int32{-2147483647, 2147483620, 42}, vals)
}

func TestWrite_ExcludesUnrepresentable(t *testing.T) {
	keep, err := frame.NewInt32Column("keep", []int32{1, 2}, nil)
	require.NoError(t, err)
	big, err := frame.NewInt64Column("big", []int64{5_000_000_000, 0}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(keep, big)
	require.NoError(t, err)

	f := tempFile(t)
	var log bytes.Buffer
	w, err := NewWriter(f, WithLogWriter(&log))
	require.NoError(t, err)
	require.NoError(t, w.Write(tbl))

	// The warning names the column and the offending type; the file is
	// still produced without it.
	require.Contains(t, log.String(), "big")
	require.Contains(t, log.String(), "int64")

	got := readBack(t, f)
	require.Equal(t, []string{"keep"}, got.Names())
	require.Equal(t, 2, got.NumRows())
}

func TestWrite_NoWritableColumns(t *testing.T) {
	big, err := frame.NewInt64Column("big", []int64{5_000_000_000}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(big)
	require.NoError(t, err)

	w, err := NewWriter(tempFile(t), WithVerbose(false))
	require.NoError(t, err)
	require.ErrorIs(t, w.Write(tbl), errs.ErrNoColumns)
}

func TestRoundTrip_Strings(t *testing.T) {
	col, err := frame.NewStringColumn("s", []string{"a", "bb", ""}, []bool{false, false, true})
	require.NoError(t, err)
	col.SetLabel("short text")
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	f := writeTable(t, tbl)
	r, err := NewReader(f)
	require.NoError(t, err)

	// max byte length 2, plus one byte for the trailing null
	require.Equal(t, format.StorageType(3), r.StorageTypes()[0])
	require.Equal(t, "%-3s", r.Formats()[0])

	got, err := r.Read()
	require.NoError(t, err)
	out := got.Col(0)
	vals, _ := out.Strings()
	require.Equal(t, []string{"a", "bb", ""}, vals)
	require.True(t, out.IsMissing(2))
	require.Equal(t, "short text", out.Label())
}

func TestRoundTrip_Date(t *testing.T) {
	dates := []time.Time{
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1960, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	col, err := frame.NewDateColumn("d", dates, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	f := writeTable(t, tbl)
	r, err := NewReader(f)
	require.NoError(t, err)
	require.Equal(t, format.TypeInt32, r.StorageTypes()[0])
	require.Equal(t, "%tdNN-DD-CCYY", r.Formats()[0])

	got, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, frame.KindDate, got.Col(0).Kind())
	vals, _ := got.Col(0).Times()
	require.Equal(t, dates, vals)
}

func TestRoundTrip_DateTime(t *testing.T) {
	stamps := []time.Time{
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2021, 7, 4, 12, 30, 45, 500*int(time.Millisecond), time.UTC),
	}
	col, err := frame.NewDateTimeColumn("ts", stamps, []bool{false, false, false})
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	f := writeTable(t, tbl)
	r, err := NewReader(f)
	require.NoError(t, err)
	require.Equal(t, format.TypeFloat64, r.StorageTypes()[0])
	require.Equal(t, "%tc", r.Formats()[0])

	got, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, frame.KindDateTime, got.Col(0).Kind())
	vals, _ := got.Col(0).Times()
	require.Equal(t, stamps, vals)
}

func TestRoundTrip_Categorical(t *testing.T) {
	col, err := frame.CategoricalFromStrings("g", []string{"a", "b", "a", "c"}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	t.Run("Labels only", func(t *testing.T) {
		got := writeRead(t, tbl)
		out := got.Col(0)
		require.Equal(t, frame.KindCategorical, out.Kind())
		require.Equal(t, []string{"a", "b", "c"}, out.Levels().Labels())
		codes, _ := out.Codes()
		require.Equal(t, []int32{0, 1, 0, 2}, codes)
	})

	t.Run("Keep original codes", func(t *testing.T) {
		got := writeRead(t, tbl, WithKeepOriginal(true))
		out := got.Col(0)
		require.Equal(t, []string{"0: a", "1: b", "2: c"}, out.Levels().Labels())
		codes, _ := out.Codes()
		require.Equal(t, []int32{0, 1, 0, 2}, codes)
	})
}

func TestRoundTrip_CategoricalMissing(t *testing.T) {
	col, err := frame.CategoricalFromStrings("g", []string{"x", "", "y"}, []bool{false, true, false})
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	got := writeRead(t, tbl)
	out := got.Col(0)
	require.True(t, out.IsMissing(1))
	require.Equal(t, []string{"x", "y"}, out.Levels().Labels())
}

func TestRoundTrip_CategoricalNumericBase(t *testing.T) {
	// Numeric-backed pools write their codes in the native width with no
	// label set, so they come back as a plain numeric column.
	levels := frame.LevelsFromLabels([]string{"1", "2", "3"})
	col, err := frame.NewCategoricalColumn("q", []int32{2, 0, 1}, levels, frame.KindInt8, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	f := writeTable(t, tbl)
	r, err := NewReader(f)
	require.NoError(t, err)
	require.Equal(t, format.TypeInt8, r.StorageTypes()[0])

	got, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, frame.KindInt8, got.Col(0).Kind())
	vals, _ := got.Col(0).Int8s()
	require.Equal(t, []int8{2, 0, 1}, vals)
}

func TestRoundTrip_VariableLabels(t *testing.T) {
	a, err := frame.NewInt32Column("age", []int32{30, 40}, nil)
	require.NoError(t, err)
	a.SetLabel("age in years")
	b, err := frame.NewFloat64Column("wt", []float64{70.5, 80.25}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(a, b)
	require.NoError(t, err)

	got := writeRead(t, tbl)
	require.Equal(t, "age in years", got.Col(0).Label())
	require.Empty(t, got.Col(1).Label())
}

func TestWriter_SanitizesNames(t *testing.T) {
	a, err := frame.NewInt32Column("2nd col", []int32{1}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(a)
	require.NoError(t, err)

	got := writeRead(t, tbl)
	require.Equal(t, []string{"_nd_col"}, got.Names())
}

func TestReader_HeaderFacts(t *testing.T) {
	col, err := frame.NewInt32Column("x", []int32{1, 2, 3}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	f := writeTable(t, tbl)
	r, err := NewReader(f)
	require.NoError(t, err)
	require.Equal(t, 118, r.Release())
	require.Equal(t, 3, r.RowCount())
	require.Equal(t, 1, r.NumVars())
	require.Empty(t, r.DatasetLabel())
	require.Len(t, r.Timestamp(), 17)
	require.Equal(t, []string{"x"}, r.VarNames())
}

func TestReader_SingleUse(t *testing.T) {
	col, err := frame.NewInt32Column("x", []int32{1}, nil)
	require.NoError(t, err)
	tbl, err := frame.NewTable(col)
	require.NoError(t, err)

	r, err := NewReader(writeTable(t, tbl))
	require.NoError(t, err)
	_, err = r.Read()
	require.NoError(t, err)
	_, err = r.Read()
	require.Error(t, err)
}
