package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"730", 73000},
		{"730.00", 73000},
		{"$730.00", 73000},
		{"$1,234.50", 123450},
		{`"$1,234.50"`, 123450},
		{" 2.50 ", 250},
		{"0.01", 1},
		{"1.005", 101}, // half-up rounding
		{"1.004", 100},
		{".5", 50},
		{"-40", -4000},
		{"0", 0},
		{"", 0},
		{"n/a", 0},
		{"abc", 0},
		{"1.2.3", 0},
		{"$", 0},
	}
	for _, tc := range cases {
		if got := ParseMoney(tc.in); got.Cents != tc.cents {
			t.Errorf("ParseMoney(%q) = %d cents, want %d", tc.in, got.Cents, tc.cents)
		}
	}
}

func TestParseMoneyStrippedEquivalence(t *testing.T) {
	// Wrapping a valid number in $, commas, or quotes must not change
	// the parsed value.
	pairs := [][2]string{
		{`"$1,234.56"`, "1234.56"},
		{"$600", "600"},
		{`"750.00"`, "750.00"},
	}
	for _, p := range pairs {
		if ParseMoney(p[0]) != ParseMoney(p[1]) {
			t.Errorf("ParseMoney(%q) != ParseMoney(%q)", p[0], p[1])
		}
	}
}

func TestMoneyDollars(t *testing.T) {
	if got := (Money{Cents: 123450}).Dollars(); got != 1234.50 {
		t.Fatalf("Dollars() = %v, want 1234.50", got)
	}
}
