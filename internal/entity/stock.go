package entity

import "time"

// Статусы позиции склада. Прочие значения берутся из справочника
// stock_statuses в порядке появления.
const (
	StockInStock = "В наличии"
	StockSold    = "Продан"
)

// StockItem позиция склада телефонов. Позиции не удаляются: продажа
// переводит статус В наличии -> Продан, правки админа меняют поля на месте.
// Position — физический порядок строк, который переписывает сортировщик.
type StockItem struct {
	ID        string    `json:"id" gorm:"primaryKey;size:20"` // STK-YYYYMM-NNNN
	City      string    `json:"city" gorm:"size:80;not null"`
	Condition string    `json:"condition" gorm:"size:80;not null"`
	ModelName string    `json:"model_name" gorm:"size:120;not null"`
	Memory    string    `json:"memory" gorm:"size:40;not null"`
	Color     string    `json:"color" gorm:"size:60;not null"`
	IMEI      string    `json:"imei" gorm:"size:40;not null;uniqueIndex"`
	SalePrice float64   `json:"sale_price" gorm:"type:decimal(12,2);default:0"`
	Status    string    `json:"stock_statuses" gorm:"size:60;not null;default:В наличии"`
	Note      string    `json:"note" gorm:"type:text"`
	Position  int       `json:"position" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StockItem) TableName() string {
	return "shop_stock"
}

// StockPatch частичное обновление позиции склада админом. Перечень полей
// закрыт: неизвестные ключи отвергаются на уровне привязки запроса.
type StockPatch struct {
	City      *string  `json:"city"`
	Condition *string  `json:"condition"`
	ModelName *string  `json:"model_name"`
	Memory    *string  `json:"memory"`
	Color     *string  `json:"color"`
	IMEI      *string  `json:"imei"`
	SalePrice *float64 `json:"sale_price"`
	Status    *string  `json:"stock_statuses"`
	Note      *string  `json:"note"`
}

// Fields раскладывает патч в карту колонок для UPDATE.
func (p StockPatch) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if p.City != nil {
		out["city"] = *p.City
	}
	if p.Condition != nil {
		out["condition"] = *p.Condition
	}
	if p.ModelName != nil {
		out["model_name"] = *p.ModelName
	}
	if p.Memory != nil {
		out["memory"] = *p.Memory
	}
	if p.Color != nil {
		out["color"] = *p.Color
	}
	if p.IMEI != nil {
		out["imei"] = *p.IMEI
	}
	if p.SalePrice != nil {
		out["sale_price"] = *p.SalePrice
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.Note != nil {
		out["note"] = *p.Note
	}
	return out
}

// AccessoryItem позиция склада аксессуаров (учёт по количеству).
type AccessoryItem struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Store     string    `json:"store" gorm:"size:120;not null;index"`
	ModelName string    `json:"model_name" gorm:"size:120;not null"`
	SKU       string    `json:"sku" gorm:"size:60;not null;uniqueIndex"`
	SalePrice float64   `json:"sale_price" gorm:"type:decimal(12,2);default:0"`
	Qty       int       `json:"qty" gorm:"not null;default:0"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AccessoryItem) TableName() string {
	return "shop_accessory_stock"
}
