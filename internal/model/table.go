package model

import (
	"math"
	"time"
)

// Table is a date-indexed set of numeric columns, one per entity.
// Values[c][r] holds the observation of column c at Index[r]; missing cells are NaN.
// Index is strictly ascending.
type Table struct {
	Index   []time.Time
	Columns []string
	Values  [][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Index)
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return t.Len() == 0 || len(t.Columns) == 0
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	if t == nil {
		return nil, false
	}
	for i, c := range t.Columns {
		if c == name {
			return t.Values[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Observations counts the non-NaN cells across all columns.
func (t *Table) Observations() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, col := range t.Values {
		for _, v := range col {
			if !math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// Since returns the rows dated on or after from. The result shares no slices with t.
func (t *Table) Since(from time.Time) *Table {
	if t == nil {
		return nil
	}
	start := len(t.Index)
	for i, d := range t.Index {
		if !d.Before(from) {
			start = i
			break
		}
	}
	out := &Table{
		Index:   append([]time.Time(nil), t.Index[start:]...),
		Columns: append([]string(nil), t.Columns...),
		Values:  make([][]float64, len(t.Values)),
	}
	for i, col := range t.Values {
		out.Values[i] = append([]float64(nil), col[start:]...)
	}
	return out
}

// Series returns the index together with the named column, both trimmed to from.
func (t *Table) Series(name string, from time.Time) ([]time.Time, []float64, bool) {
	sub := t.Since(from)
	col, ok := sub.Column(name)
	if !ok {
		return nil, nil, false
	}
	return sub.Index, col, true
}

// LastDate returns the date of the final row.
func (t *Table) LastDate() (time.Time, bool) {
	if t.Len() == 0 {
		return time.Time{}, false
	}
	return t.Index[len(t.Index)-1], true
}
