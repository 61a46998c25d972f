package entity

// Категории справочника. Порядок значений внутри категории задаётся
// полем Position (порядок первого появления) и определяет канонический
// порядок отображения и сортировки.
const (
	DictCity             = "city"
	DictCondition        = "condition"
	DictStore            = "store"
	DictStockStatus      = "stock_statuses"
	DictPreorderStatus   = "preorder_statuses"
	DictDiagnosticStatus = "diagnostic_statuses"
	DictPayment          = "payments"
	DictItemType         = "item_type"
	DictComplect         = "complect"
	DictAppearance       = "appearance"
)

// DictValue строка справочника: допустимое значение категории.
type DictValue struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Category string `json:"category" gorm:"size:40;not null;index:idx_dict_cat_pos,priority:1;uniqueIndex:uq_dict_cat_value,priority:1"`
	Value    string `json:"value" gorm:"size:120;not null;uniqueIndex:uq_dict_cat_value,priority:2"`
	Position int    `json:"position" gorm:"not null;index:idx_dict_cat_pos,priority:2"`
}

func (DictValue) TableName() string {
	return "shop_dict_values"
}

// Staff сотрудник сети (код, имя, цвет для чипсов в отчётах).
type Staff struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	StaffID string `json:"staff_id" gorm:"size:40;index"`
	Name    string `json:"name" gorm:"size:120;not null;uniqueIndex"`
	Color   string `json:"color" gorm:"size:20"`
}

func (Staff) TableName() string {
	return "shop_staff"
}

// Store магазин сети; PreDay — фиксированная дневная премия смены.
type Store struct {
	ID     uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name   string  `json:"name" gorm:"size:120;not null;uniqueIndex"`
	PreDay float64 `json:"pre_day" gorm:"type:decimal(12,2);default:0"`
}

func (Store) TableName() string {
	return "shop_stores"
}
