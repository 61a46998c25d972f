package ident

import (
	"testing"
	"time"
)

func TestSaleID(t *testing.T) {
	now := time.Date(2025, 8, 15, 14, 30, 5, 0, time.UTC)
	if got := SaleID(now); got != "SALE-20250815143005" {
		t.Errorf("SaleID = %q", got)
	}
}

func TestNextMonthly(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "PRE-202508-0001"},
		{"continues max", []string{"PRE-202508-0001", "PRE-202508-0007", "PRE-202508-0003"}, "PRE-202508-0008"},
		{"other month ignored", []string{"PRE-202507-0042"}, "PRE-202508-0001"},
		{"other prefix ignored", []string{"SHF-202508-0042"}, "PRE-202508-0001"},
		{"garbage ignored", []string{"PRE-abc-0001", "PRE-2025080001", ""}, "PRE-202508-0001"},
	}
	for _, tc := range cases {
		if got := NextMonthly(PrefixPreorder, now, tc.existing); got != tc.want {
			t.Errorf("%s: NextMonthly = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestMonthRollover(t *testing.T) {
	existing := []string{"DIAG-202508-0099"}
	sep := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if got := NextMonthly(PrefixDiagnostic, sep, existing); got != "DIAG-202509-0001" {
		t.Errorf("counter must reset per month, got %q", got)
	}
}
