// Package ident — генерация идентификаторов документов.
//
// Помесячные идентификаторы имеют вид PREFIX-YYYYMM-NNNN; счётчик NNNN
// сбрасывается каждый календарный месяц и равен максимум-существующий-плюс-один
// среди уже записанных id того же месяца.
package ident

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Префиксы документов.
const (
	PrefixStock      = "STK"
	PrefixShift      = "SHF"
	PrefixPreorder   = "PRE"
	PrefixDiagnostic = "DIAG"
)

var reMonthly = regexp.MustCompile(`^([A-Z]+)-(\d{6})-(\d{4})$`)

// YearMonth ключ месяца YYYYMM для текущего момента.
func YearMonth(now time.Time) string {
	return now.Format("200601")
}

// SaleID идентификатор продажи SALE-YYYYMMDDHHMMSS.
func SaleID(now time.Time) string {
	return "SALE-" + now.Format("20060102150405")
}

// MaxMonthly наибольший счётчик среди existing для данного префикса и месяца.
func MaxMonthly(prefix, ym string, existing []string) int {
	maxN := 0
	for _, id := range existing {
		m := reMonthly.FindStringSubmatch(id)
		if m == nil || m[1] != prefix || m[2] != ym {
			continue
		}
		n, err := strconv.Atoi(m[3])
		if err == nil && n > maxN {
			maxN = n
		}
	}
	return maxN
}

// NextMonthly следующий помесячный id: PREFIX-YYYYMM-NNNN.
func NextMonthly(prefix string, now time.Time, existing []string) string {
	ym := YearMonth(now)
	return Format(prefix, ym, MaxMonthly(prefix, ym, existing)+1)
}

// Format собирает помесячный id из компонентов.
func Format(prefix, ym string, n int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, ym, n)
}
