// Package stocksort упорядочивает склад телефонов по словарям и каталогу.
package stocksort

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mobigrad/teleshop/internal/entity"
)

const (
	unknownDict    = 999
	unknownModel   = 1000000
	unknownMemory  = 1000000000
	unknownColor   = 1000000000
	memoryFallback = 999999
)

var leadingNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Orders справочники порядка сортировки. Строятся один раз на прогон
// по словарям и каталогу из базы.
type Orders struct {
	status    map[string]int
	city      map[string]int
	condition map[string]int
	model     map[string]int
	memory    map[string]int // ключ model|memory
	color     map[string]int // ключ model|memory|color
}

// NewOrders собирает справочники. Статусы словаря нумеруются со 2,
// "В наличии" и "Продан" закреплены впереди.
func NewOrders(statuses, cities, conditions []entity.DictValue, catalog []entity.CatalogEntry) *Orders {
	o := &Orders{
		status:    map[string]int{norm(entity.StockInStock): 0, norm(entity.StockSold): 1},
		city:      map[string]int{},
		condition: map[string]int{},
		model:     map[string]int{},
		memory:    map[string]int{},
		color:     map[string]int{},
	}
	for _, s := range statuses {
		k := norm(s.Value)
		if _, ok := o.status[k]; !ok {
			o.status[k] = len(o.status)
		}
	}
	for i, c := range cities {
		o.city[norm(c.Value)] = i
	}
	for i, c := range conditions {
		o.condition[norm(c.Value)] = i
	}
	for _, e := range catalog {
		m := norm(e.ModelName)
		if _, ok := o.model[m]; !ok {
			o.model[m] = len(o.model)
		}
		mk := m + "|" + norm(e.Memory)
		if _, ok := o.memory[mk]; !ok {
			o.memory[mk] = len(o.memory)
		}
		ck := mk + "|" + norm(e.Color)
		if _, ok := o.color[ck]; !ok {
			o.color[ck] = len(o.color)
		}
	}
	return o
}

// Keys шесть ключей сортировки позиции, все по возрастанию.
type Keys struct {
	Status    int
	City      int
	Condition int
	Model     int
	Memory    float64
	Color     int
}

func lookup(m map[string]int, key string, unknown int) int {
	if v, ok := m[key]; ok {
		return v
	}
	return unknown
}

// memoryFallbackKey порядок по числу из строки памяти, когда связки нет
// в каталоге. Дробные значения сохраняются, терабайты приводятся к
// гигабайтам.
func memoryFallbackKey(memory string) float64 {
	n := norm(memory)
	v := float64(memoryFallback)
	if num := leadingNumber.FindString(n); num != "" {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", "."), 64); err == nil {
			v = f
		}
	}
	if strings.Contains(n, "тб") || strings.Contains(n, "tb") {
		v *= 1024
	}
	return unknownMemory + v
}

// ItemKeys вычисляет ключи сортировки для одной позиции.
func (o *Orders) ItemKeys(it entity.StockItem) Keys {
	m := norm(it.ModelName)
	mk := m + "|" + norm(it.Memory)
	ck := mk + "|" + norm(it.Color)

	k := Keys{
		Status:    lookup(o.status, norm(it.Status), unknownDict),
		City:      lookup(o.city, norm(it.City), unknownDict),
		Condition: lookup(o.condition, norm(it.Condition), unknownDict),
		Model:     lookup(o.model, m, unknownModel),
		Color:     lookup(o.color, ck, unknownColor),
	}
	if v, ok := o.memory[mk]; ok {
		k.Memory = float64(v)
	} else {
		k.Memory = memoryFallbackKey(it.Memory)
	}
	return k
}

func less(a, b Keys) bool {
	if a.Status != b.Status {
		return a.Status < b.Status
	}
	if a.City != b.City {
		return a.City < b.City
	}
	if a.Condition != b.Condition {
		return a.Condition < b.Condition
	}
	if a.Model != b.Model {
		return a.Model < b.Model
	}
	if a.Memory != b.Memory {
		return a.Memory < b.Memory
	}
	return a.Color < b.Color
}

// Sort устойчиво сортирует копию списка и возвращает ее.
func (o *Orders) Sort(items []entity.StockItem) []entity.StockItem {
	out := make([]entity.StockItem, len(items))
	copy(out, items)
	keys := make([]Keys, len(out))
	for i, it := range out {
		keys[i] = o.ItemKeys(it)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return less(keys[idx[a]], keys[idx[b]])
	})
	sorted := make([]entity.StockItem, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// Positions возвращает пары id -> новая позиция после сортировки.
// Нумерация с единицы.
func (o *Orders) Positions(items []entity.StockItem) map[string]int {
	sorted := o.Sort(items)
	out := make(map[string]int, len(sorted))
	for i, it := range sorted {
		out[it.ID] = i + 1
	}
	return out
}
