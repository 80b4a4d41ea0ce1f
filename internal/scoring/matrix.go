package scoring

import "fmt"

// Every row/column combination is graded; a cell missing from the definition
// is expected to be false, a key missing from the answer is a mismatch.
func (e *Engine) scoreMatrix(d Matrix, raw any) float64 {
	total := len(d.RowIDs) * len(d.ColumnIDs)
	if total == 0 {
		return e.misconfigured(d.Header, "matrix needs rows and columns")
	}
	cells, status := parseMatrix(raw)
	if status != answered {
		return e.rejected(d.Header, status)
	}

	correct := 0
	for _, row := range d.RowIDs {
		for _, col := range d.ColumnIDs {
			got, ok := cells[cellKey(row, col)]
			if ok && got == d.Cells[CellKey{RowID: row, ColumnID: col}] {
				correct++
			}
		}
	}
	return proportion(correct, total, d.Points)
}

func cellKey(rowID, columnID uint) string {
	return fmt.Sprintf("cell_%d_%d", rowID, columnID)
}
