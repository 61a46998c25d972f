// Package money — разбор и сериализация способов оплаты и денежное округление.
//
// Строка оплат хранится в виде "Метод:Сумма; Метод:Сумма"; парсер дополнительно
// принимает пробел как разделитель метода и суммы, а также запятую как
// десятичный разделитель. Нераспознанные фрагменты молча пропускаются.
package money

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Payment одна позиция оплаты.
type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

var (
	reColon = regexp.MustCompile(`^(.+?):\s*([0-9]+(?:[.,][0-9]+)?)$`)
	reSpace = regexp.MustCompile(`^(.+?)\s+([0-9]+(?:[.,][0-9]+)?)$`)
	reSplit = regexp.MustCompile(`[;,\n]`)
)

const epsilon = 2.220446049250313e-16

// Round2 округляет до копеек (half-up, с эпсилоном против двоичных хвостов).
func Round2(n float64) float64 {
	return math.Round((n+epsilon)*100) / 100
}

// ToNumber разбирает число с точкой или запятой; мусор и пусто дают 0.
func ToNumber(v string) float64 {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return n
}

// Serialize кодирует список оплат в строку "метод1:сумма1; метод2:сумма2".
func Serialize(payments []Payment) string {
	if len(payments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(payments))
	for _, p := range payments {
		method := strings.TrimSpace(p.Method)
		if method == "" {
			continue
		}
		parts = append(parts, method+":"+strconv.FormatFloat(p.Amount, 'f', -1, 64))
	}
	return strings.Join(parts, "; ")
}

// Sum суммирует список оплат.
func Sum(payments []Payment) float64 {
	var s float64
	for _, p := range payments {
		s += p.Amount
	}
	return s
}

// SumString суммирует все суммы из сериализованной строки оплат.
func SumString(s string) float64 {
	var sum float64
	for _, amount := range parse(s) {
		sum += amount.Amount
	}
	return sum
}

// ParseMap раскладывает строку оплат в карту метод -> сумма.
func ParseMap(s string) map[string]float64 {
	out := map[string]float64{}
	for _, p := range parse(s) {
		out[p.Method] += p.Amount
	}
	return out
}

func parse(s string) []Payment {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []Payment
	for _, part := range reSplit.Split(s, -1) {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		m := reColon.FindStringSubmatch(p)
		if m == nil {
			m = reSpace.FindStringSubmatch(p)
		}
		if m == nil {
			continue
		}
		method := strings.TrimSpace(m[1])
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
		if method == "" || err != nil {
			continue
		}
		out = append(out, Payment{Method: method, Amount: n})
	}
	return out
}

// MergeInto прибавляет карту оплат src к агрегату dst.
func MergeInto(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] += v
	}
}

// RoundMap копия карты с округлением всех сумм до копеек.
func RoundMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = Round2(v)
	}
	return out
}
