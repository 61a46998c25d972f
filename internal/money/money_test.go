package money

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.005, 1.01}, // классический двоичный хвост
		{2.675, 2.68},
		{0.1 + 0.2, 0.3},
		{100, 100},
		{399.999, 400},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSerializeAndSum(t *testing.T) {
	payments := []Payment{
		{Method: "Наличные", Amount: 400},
		{Method: "Карта", Amount: 599.5},
		{Method: "", Amount: 100}, // пустой метод отбрасывается
	}
	if got := Serialize(payments); got != "Наличные:400; Карта:599.5" {
		t.Errorf("Serialize = %q", got)
	}
	if got := Sum(payments); got != 1099.5 {
		t.Errorf("Sum = %v", got)
	}
	if Serialize(nil) != "" {
		t.Error("Serialize(nil) must be empty")
	}
}

func TestSumString(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"Наличные:400; Карта:600", 1000},
		{"Наличные 400", 400},        // пробел как разделитель
		{"Карта:99,5", 99},            // запятая рвёт строку: ",5" пропускается
		{"Карта:99.5", 99.5},
		{"мусор; Карта:100", 100},     // нераспознанный фрагмент молча пропускается
		{"", 0},
		{"Перевод:300\nКарта:200", 500},
	}
	for _, tc := range cases {
		if got := SumString(tc.in); got != tc.want {
			t.Errorf("SumString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseMap(t *testing.T) {
	m := ParseMap("Наличные:400; Карта:600; Наличные:100")
	if m["Наличные"] != 500 || m["Карта"] != 600 {
		t.Errorf("ParseMap = %v", m)
	}
	if len(ParseMap("")) != 0 {
		t.Error("ParseMap of empty string must be empty")
	}
}

func TestToNumber(t *testing.T) {
	if ToNumber("12,5") != 12.5 {
		t.Error("ToNumber must accept comma as decimal separator")
	}
	if ToNumber("abc") != 0 || ToNumber("") != 0 {
		t.Error("ToNumber of garbage must be 0")
	}
}

func TestMergeInto(t *testing.T) {
	dst := map[string]float64{"Карта": 100}
	MergeInto(dst, map[string]float64{"Карта": 50, "Наличные": 10})
	if dst["Карта"] != 150 || dst["Наличные"] != 10 {
		t.Errorf("MergeInto = %v", dst)
	}
}
