package stocksort

import (
	"testing"

	"github.com/mobigrad/teleshop/internal/entity"
)

func testOrders() *Orders {
	statuses := []entity.DictValue{
		{Value: "В наличии"}, {Value: "Продан"}, {Value: "Бронь"}, {Value: "Витрина"},
	}
	cities := []entity.DictValue{{Value: "Москва"}, {Value: "Казань"}}
	conditions := []entity.DictValue{{Value: "Новый"}, {Value: "Б/У"}}
	catalog := []entity.CatalogEntry{
		{ModelName: "iPhone 15 Pro", Memory: "128 ГБ", Color: "Черный"},
		{ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Черный"},
		{ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Синий"},
		{ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Розовый"},
	}
	return NewOrders(statuses, cities, conditions, catalog)
}

func TestItemKeysKnown(t *testing.T) {
	o := testOrders()
	k := o.ItemKeys(entity.StockItem{
		Status: "в наличии", City: " Казань ", Condition: "НОВЫЙ",
		ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Синий",
	})
	if k.Status != 0 || k.City != 1 || k.Condition != 0 {
		t.Errorf("dict keys = %+v", k)
	}
	if k.Model != 0 || k.Memory != 1 || k.Color != 2 {
		t.Errorf("catalog keys = %+v", k)
	}
}

func TestItemKeysUnknown(t *testing.T) {
	o := testOrders()
	k := o.ItemKeys(entity.StockItem{
		Status: "Ремонт", City: "Тверь", ModelName: "Pixel 8", Memory: "1 ТБ", Color: "Мятный",
	})
	if k.Status != unknownDict || k.City != unknownDict {
		t.Errorf("unknown dict keys = %+v", k)
	}
	if k.Model != unknownModel {
		t.Errorf("model = %d", k.Model)
	}
	if k.Memory != unknownMemory+1024 {
		t.Errorf("memory = %v, want terabyte fallback", k.Memory)
	}
	if k.Color != unknownColor {
		t.Errorf("color = %d", k.Color)
	}
}

func TestMemoryFallbackNoNumber(t *testing.T) {
	o := testOrders()
	k := o.ItemKeys(entity.StockItem{ModelName: "Pixel 8", Memory: "много"})
	if k.Memory != unknownMemory+memoryFallback {
		t.Errorf("memory = %v", k.Memory)
	}
}

func TestMemoryFallbackFractionalTerabytes(t *testing.T) {
	o := testOrders()
	k := o.ItemKeys(entity.StockItem{ModelName: "Pixel 8", Memory: "1.5 ТБ"})
	if k.Memory != unknownMemory+1536 {
		t.Errorf("memory = %v, want 1.5 TB as 1536", k.Memory)
	}
	k = o.ItemKeys(entity.StockItem{ModelName: "Pixel 8", Memory: "1,5 тб"})
	if k.Memory != unknownMemory+1536 {
		t.Errorf("memory = %v, want comma decimal handled", k.Memory)
	}
}

func TestSortOrderAndStability(t *testing.T) {
	o := testOrders()
	items := []entity.StockItem{
		{ID: "STK-1", Status: "Продан", City: "Москва", Condition: "Новый", ModelName: "iPhone 15 Pro", Memory: "128 ГБ", Color: "Черный"},
		{ID: "STK-2", Status: "В наличии", City: "Казань", Condition: "Новый", ModelName: "iPhone 15", Memory: "128 ГБ", Color: "Розовый"},
		{ID: "STK-3", Status: "В наличии", City: "Москва", Condition: "Б/У", ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Синий"},
		{ID: "STK-4", Status: "В наличии", City: "Москва", Condition: "Новый", ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Черный"},
		{ID: "STK-5", Status: "В наличии", City: "Москва", Condition: "Новый", ModelName: "iPhone 15 Pro", Memory: "256 ГБ", Color: "Черный"},
		{ID: "STK-6", Status: "Неизвестный", City: "Москва"},
	}
	sorted := o.Sort(items)
	got := make([]string, len(sorted))
	for i, it := range sorted {
		got[i] = it.ID
	}
	want := []string{"STK-4", "STK-5", "STK-3", "STK-2", "STK-1", "STK-6"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestPositions(t *testing.T) {
	o := testOrders()
	items := []entity.StockItem{
		{ID: "STK-A", Status: "Продан"},
		{ID: "STK-B", Status: "В наличии"},
	}
	pos := o.Positions(items)
	if pos["STK-B"] != 1 || pos["STK-A"] != 2 {
		t.Errorf("positions = %v", pos)
	}
}
