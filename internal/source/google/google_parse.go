package google

import (
	"fmt"
	"strings"

	"nomina/internal/source"
)

// safeGet returns the cell at index i rendered as a trimmed string,
// or "" when the row is too short.
func safeGet(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(toString(row[i]))
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// Sheets returns numeric cells as float64; render without
		// a trailing ".000000".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func rowEmpty(row []interface{}) bool {
	for i := range row {
		if safeGet(row, i) != "" {
			return false
		}
	}
	return true
}

func parseUserRows(values [][]interface{}) []source.UserRow {
	rows := make([]source.UserRow, 0, len(values))
	for _, row := range values {
		if rowEmpty(row) {
			continue
		}
		rows = append(rows, source.UserRow{
			ID:       safeGet(row, 0),
			FullName: safeGet(row, 1),
			Username: safeGet(row, 2),
			Password: safeGet(row, 3),
			Role:     safeGet(row, 4),
			Project:  safeGet(row, 5),
		})
	}
	return rows
}

func parseInvoiceRows(values [][]interface{}) []source.InvoiceRow {
	rows := make([]source.InvoiceRow, 0, len(values))
	for _, row := range values {
		if rowEmpty(row) {
			continue
		}
		rows = append(rows, source.InvoiceRow{
			ID:           safeGet(row, 0),
			Owner:        safeGet(row, 1),
			Date:         safeGet(row, 2),
			EmployeeName: safeGet(row, 3),
			Salary:       safeGet(row, 4),
			Commission:   safeGet(row, 5),
			Total:        safeGet(row, 6),
			Status:       safeGet(row, 7),
		})
	}
	return rows
}
