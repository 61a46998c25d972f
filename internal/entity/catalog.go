package entity

// CatalogEntry строка каталога моделей: допустимая комбинация
// модель/память/цвет и её канонический порядок (Position — порядок
// первого появления в каталоге).
type CatalogEntry struct {
	ID        uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	ModelName string  `json:"model_name" gorm:"size:120;not null;index"`
	Memory    string  `json:"memory" gorm:"size:40"`
	Color     string  `json:"color" gorm:"size:60"`
	SalePrice float64 `json:"sale_price" gorm:"type:decimal(12,2);default:0"`
	PrePrice  float64 `json:"pre_price" gorm:"type:decimal(12,2);default:0"`
	Position  int     `json:"position" gorm:"not null;index"`
}

func (CatalogEntry) TableName() string {
	return "shop_catalog"
}
