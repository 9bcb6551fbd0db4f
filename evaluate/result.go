package evaluate

import (
	"fmt"
	"math"
	"strings"
)

// ResultTable is the terminal artifact of one evaluation: a labeled
// rows × columns table of metric values. For classification the columns are
// algorithm names and the rows {accuracy, misc rate, F-score}; for
// regression the columns are the stringified alpha grid and the rows
// {RMSE, R2}. The table is immutable once returned.
type ResultTable struct {
	rows     []string
	columns  []string
	values   map[string][]float64
	failures map[string]error
}

func newResultTable(rows, columns []string) *ResultTable {
	t := &ResultTable{
		rows:     rows,
		columns:  columns,
		values:   make(map[string][]float64, len(columns)),
		failures: make(map[string]error),
	}
	for _, col := range columns {
		cells := make([]float64, len(rows))
		for i := range cells {
			cells[i] = math.NaN()
		}
		t.values[col] = cells
	}
	return t
}

func (t *ResultTable) setColumn(col string, cells []float64) {
	copy(t.values[col], cells)
}

func (t *ResultTable) setFailure(col string, err error) {
	t.failures[col] = err
}

// Rows returns the metric labels in order.
func (t *ResultTable) Rows() []string {
	out := make([]string, len(t.rows))
	copy(out, t.rows)
	return out
}

// Columns returns the column labels in input order.
func (t *ResultTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Value returns the cell for the given metric row and column. The second
// return value is false when either label is unknown. A NaN cell means the
// metric was undefined or the column's fit failed.
func (t *ResultTable) Value(row, col string) (float64, bool) {
	cells, ok := t.values[col]
	if !ok {
		return math.NaN(), false
	}
	for i, r := range t.rows {
		if r == row {
			return cells[i], true
		}
	}
	return math.NaN(), false
}

// Failure returns the recorded error for a column whose fit failed, or nil.
func (t *ResultTable) Failure(col string) error {
	return t.failures[col]
}

// Failures returns a copy of the per-column failure map.
func (t *ResultTable) Failures() map[string]error {
	out := make(map[string]error, len(t.failures))
	for k, v := range t.failures {
		out[k] = v
	}
	return out
}

// String renders the table for display, metrics as rows and one column per
// algorithm or alpha value.
func (t *ResultTable) String() string {
	var b strings.Builder

	rowWidth := 0
	for _, r := range t.rows {
		if len(r) > rowWidth {
			rowWidth = len(r)
		}
	}

	colWidth := 10
	for _, c := range t.columns {
		if len(c) > colWidth {
			colWidth = len(c)
		}
	}

	fmt.Fprintf(&b, "%-*s", rowWidth, "")
	for _, c := range t.columns {
		fmt.Fprintf(&b, "  %*s", colWidth, c)
	}
	b.WriteByte('\n')

	for i, r := range t.rows {
		fmt.Fprintf(&b, "%-*s", rowWidth, r)
		for _, c := range t.columns {
			v := t.values[c][i]
			if math.IsNaN(v) {
				fmt.Fprintf(&b, "  %*s", colWidth, "NaN")
			} else {
				fmt.Fprintf(&b, "  %*.4f", colWidth, v)
			}
		}
		b.WriteByte('\n')
	}

	for _, c := range t.columns {
		if err := t.failures[c]; err != nil {
			fmt.Fprintf(&b, "! %s failed: %v\n", c, err)
		}
	}
	return b.String()
}
