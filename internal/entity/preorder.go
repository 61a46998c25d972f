package entity

import "time"

// Статусы предзаказа.
const (
	PreorderWaiting   = "Ожидание"
	PreorderCompleted = "Завершен"
)

// PreorderEvent строка журнала предзаказов. История одного предзаказа
// состоит из нескольких строк с одним id; текущее состояние вычисляется
// сверткой строк в порядке записи (по Seq).
type PreorderEvent struct {
	Seq       uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ID        string    `json:"id" gorm:"size:20;not null;index"` // PRE-YYYYMM-NNNN
	Date      string    `json:"date" gorm:"size:10;index"`
	Store     string    `json:"store" gorm:"size:120;index"`
	Staff     string    `json:"staff" gorm:"size:120"`
	Status    string    `json:"status" gorm:"size:40"`
	ModelName string    `json:"model_name" gorm:"size:120"`
	Memory    string    `json:"memory" gorm:"size:40"`
	Color     string    `json:"color" gorm:"size:60"`
	PrePrice  string    `json:"pre_price" gorm:"size:40"` // текст, число извлекается при свертке
	Prepay    float64   `json:"prepay" gorm:"type:decimal(12,2);default:0"`
	Payments  string    `json:"payments" gorm:"type:text"`
	Customer  string    `json:"customer" gorm:"size:160"`
	Phone     string    `json:"phone" gorm:"size:40"`
	Zarplata  float64   `json:"zarplata" gorm:"type:decimal(12,2);default:0"`
	Note      string    `json:"note" gorm:"type:text"`
	PreIMEI   string    `json:"pre_imei" gorm:"size:60"`
	CreatedAt time.Time `json:"created_at"`
}

func (PreorderEvent) TableName() string {
	return "shop_preorder_events"
}
