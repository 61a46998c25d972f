package dateutil

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	loc := Location(DefaultTZ)

	cases := []struct {
		in   string
		want string
	}{
		{"2025-03-07", "07.03.2025"},
		{"07.03.2025", "07.03.2025"},
		{"", ""},
		{"45000", "09.03.2023"},        // серийная дата таблиц
		{"45000,0", "09.03.2023"},      // запятая как десятичный разделитель
		{"12", "12"},                   // вне диапазона серийных дат
		{"100001", "100001"},           // вне диапазона серийных дат
		{"  2024-12-31  ", "31.12.2024"},
		{"не дата", "не дата"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in, loc); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSerialBase(t *testing.T) {
	loc := Location(DefaultTZ)
	// 60 дней от 1899-12-30 — первая принимаемая серийная дата
	if got := Normalize("60", loc); got != "28.02.1900" {
		t.Errorf("Normalize(60) = %q, want 28.02.1900", got)
	}
}

func TestToTimeAndUnix(t *testing.T) {
	tm, ok := ToTime("15.08.2025")
	if !ok {
		t.Fatal("ToTime failed on valid date")
	}
	if tm.Year() != 2025 || tm.Month() != time.August || tm.Day() != 15 {
		t.Fatalf("ToTime parsed %v", tm)
	}
	if _, ok := ToTime("2025-08-15"); ok {
		t.Error("ToTime must accept only DD.MM.YYYY")
	}
	if Unix("мусор") != 0 {
		t.Error("Unix of garbage must be 0")
	}
	if Unix("16.08.2025") <= Unix("15.08.2025") {
		t.Error("Unix must be monotonic over dates")
	}
}

func TestTimeMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"09:30", 570},
		{"9:30", 570},
		{"09.30", 570},
		{"09:30:30", 570.5},
		{"", -1},
		{"abc", -1},
	}
	for _, tc := range cases {
		if got := TimeMinutes(tc.in); got != tc.want {
			t.Errorf("TimeMinutes(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
