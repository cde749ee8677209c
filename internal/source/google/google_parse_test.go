package google

import "testing"

func TestSafeGet(t *testing.T) {
	row := []interface{}{" hello ", 42.0, 3.5, nil}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"trims strings", 0, "hello"},
		{"whole floats render as integers", 1, "42"},
		{"fractional floats keep the fraction", 2, "3.5"},
		{"nil cell", 3, ""},
		{"out of range", 9, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeGet(row, tt.index); got != tt.want {
				t.Errorf("safeGet(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestParseUserRows(t *testing.T) {
	values := [][]interface{}{
		{"1", "Ana Torres", "ana", "pw1", "Administrator", "HQ"},
		{"", "", "", "", "", ""},
		{"2", "Luis Vega", "luis"},
	}

	rows := parseUserRows(values)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].FullName != "Ana Torres" || rows[0].Role != "Administrator" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Password != "" || rows[1].Project != "" {
		t.Errorf("short row should yield empty tail fields: %+v", rows[1])
	}
}

func TestParseInvoiceRows(t *testing.T) {
	values := [][]interface{}{
		{"INV-1", "luis", "7/5/2025", "Luis Vega", "$1,200.00", "$300.00", "$1,500.00", "Pagado"},
		{"", "", "", "", "", "", "", ""},
	}

	rows := parseInvoiceRows(values)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.ID != "INV-1" || got.Owner != "luis" || got.Salary != "$1,200.00" || got.Status != "Pagado" {
		t.Errorf("unexpected row: %+v", got)
	}
}
