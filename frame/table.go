package frame

import (
	"fmt"

	"github.com/arloliu/stata/errs"
)

// Table is an ordered sequence of named, equal-length columns.
type Table struct {
	cols   []*Column
	byName map[string]int
}

// NewTable assembles columns into a table. Column names must be unique and
// lengths must agree.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:   cols,
		byName: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.byName[c.name]; dup {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateColumnName, c.name)
		}
		t.byName[c.name] = i
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				errs.ErrColumnLengthMismatch, c.name, c.Len(), cols[0].Len())
		}
	}

	return t, nil
}

// NumRows returns the row count, zero for an empty table.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}

	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}

	return names
}

// Col returns the column at position i.
func (t *Table) Col(i int) *Column { return t.cols[i] }

// Columns returns the column slice in order. The slice is shared.
func (t *Table) Columns() []*Column { return t.cols }

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownColumn, name)
	}

	return t.cols[i], nil
}

// Append concatenates other onto t column-wise. The column sets must match
// in order, name and kind. The chunk driver uses this to stitch decoded
// slabs back into one table.
func (t *Table) Append(other *Table) error {
	if len(t.cols) != len(other.cols) {
		return fmt.Errorf("%w: %d columns vs %d", errs.ErrColumnLengthMismatch,
			len(t.cols), len(other.cols))
	}
	for i, c := range t.cols {
		o := other.cols[i]
		if c.name != o.name {
			return fmt.Errorf("%w: position %d holds %q vs %q",
				errs.ErrUnknownColumn, i, c.name, o.name)
		}
		if err := c.append(o); err != nil {
			return err
		}
	}

	return nil
}
