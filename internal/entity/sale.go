package entity

import "time"

// Типы товара в чеке.
const (
	ItemPhone     = "Телефон"
	ItemAccessory = "Аксессуар"
	ItemService   = "Услуга"
	ItemPreorder  = "Предзаказ"
)

// Sale строка журнала продаж. Журнал только дописывается; записанная
// продажа не изменяется.
type Sale struct {
	Seq       uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ID        string    `json:"id" gorm:"size:24;not null;uniqueIndex"` // SALE-YYYYMMDDHHMMSS
	Date      string    `json:"date" gorm:"size:10;not null;index"`    // DD.MM.YYYY
	Store     string    `json:"store" gorm:"size:120;not null;index"`
	Staff     string    `json:"staff" gorm:"size:120;not null;index"`
	ItemType  string    `json:"item_type" gorm:"size:20;not null"`
	Condition string    `json:"condition" gorm:"size:80"`
	ModelName string    `json:"model_name" gorm:"size:120"`
	Memory    string    `json:"memory" gorm:"size:40"`
	Color     string    `json:"color" gorm:"size:60"`
	IMEIOrSKU string    `json:"imei_or_sku" gorm:"size:60"`
	Total     float64   `json:"total" gorm:"type:decimal(12,2);not null;default:0"`
	Payments  string    `json:"payments" gorm:"type:text"` // "метод:сумма; ..."
	Sdacha    string    `json:"sdacha" gorm:"size:40"`
	Customer  string    `json:"customer" gorm:"size:160"`
	Phone     string    `json:"phone" gorm:"size:40"`
	Zarplata  float64   `json:"zarplata" gorm:"type:decimal(12,2);default:0"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (Sale) TableName() string {
	return "shop_sales"
}
