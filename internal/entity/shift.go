package entity

import "time"

// Shift отметка выхода сотрудника на смену.
type Shift struct {
	Seq          uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ID           string    `json:"id" gorm:"size:20;not null;uniqueIndex"` // SHF-YYYYMM-NNNN
	DateVyhoda   string    `json:"date_vyhoda" gorm:"size:10;not null;index"`
	VremyaVyhoda string    `json:"vremya_vyhoda" gorm:"size:10"` // HH:MM
	Store        string    `json:"store" gorm:"size:120;not null;index"`
	StaffID      string    `json:"staff_id" gorm:"size:40"`
	Staff        string    `json:"staff" gorm:"size:120;not null;index"`
	PreDay       float64   `json:"pre_day" gorm:"type:decimal(12,2);default:0"`
	DeviceType   string    `json:"device_type" gorm:"size:40"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Shift) TableName() string {
	return "shop_shifts"
}
