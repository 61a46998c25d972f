package dateutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTZ единая бизнес-таймзона сети магазинов.
const DefaultTZ = "Europe/Moscow"

// Канонический формат хранения дат.
const Layout = "02.01.2006"

var (
	reDDMMYYYY = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	reISO      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reTime     = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?::(\d{2}))?$`)
)

// дополнительные представления, встречающиеся в импортируемых данных
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04",
	"2006/01/02",
}

// Location возвращает таймзону по имени, с фолбэком на Europe/Moscow.
func Location(name string) *time.Location {
	if name == "" {
		name = DefaultTZ
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// Normalize приводит любое принятое представление даты к "DD.MM.YYYY":
// ISO, DD.MM.YYYY, серийная дата таблиц (дни от 1899-12-30) и несколько
// текстовых форматов. Нераспознанное значение возвращается как есть.
func Normalize(v string, loc *time.Location) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	if m := reDDMMYYYY.FindStringSubmatch(s); m != nil {
		return s
	}
	if m := reISO.FindStringSubmatch(s); m != nil {
		return m[3] + "." + m[2] + "." + m[1]
	}
	// серийная дата: дни от 1899-12-30
	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		if n > 59 && n < 100000 {
			base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
			return base.AddDate(0, 0, int(n)).Format(Layout)
		}
		return s
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc).Format(Layout)
		}
	}
	return s
}

// NormalizeOrToday как Normalize, но пустой ввод заменяется текущей датой.
func NormalizeOrToday(v string, loc *time.Location) string {
	if strings.TrimSpace(v) == "" {
		return time.Now().In(loc).Format(Layout)
	}
	return Normalize(v, loc)
}

// ToTime разбирает каноничную дату "DD.MM.YYYY".
func ToTime(s string) (time.Time, bool) {
	m := reDDMMYYYY.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// Unix возвращает сортировочный ключ даты; нераспознанная дата — 0.
func Unix(s string) int64 {
	t, ok := ToTime(s)
	if !ok {
		return 0
	}
	return t.Unix()
}

// TimeMinutes переводит "HH:MM", "HH:MM:SS" или "HH.MM" в минуты от полуночи.
// Нераспознанное время даёт -1 (такие смены сортируются последними).
func TimeMinutes(s string) float64 {
	m := reTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return -1
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	min := float64(hh)*60 + float64(mm)
	if m[3] != "" {
		ss, _ := strconv.Atoi(m[3])
		min += float64(ss) / 60
	}
	return min
}
