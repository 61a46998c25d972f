package entity

import "time"

// Статусы заявки диагностики.
const (
	DiagnosticAccepted = "Принят"
	DiagnosticIssued   = "Выдан"
)

// DiagnosticRow строка журнала диагностики. В отличие от предзаказов
// статус и оплата правятся на месте, в первой живой строке заявки.
type DiagnosticRow struct {
	Seq          uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ID           string    `json:"id" gorm:"size:20;not null;index"` // DIAG-YYYYMM-NNNN
	IntakeDate   string    `json:"intake_date" gorm:"size:10;index"`
	PurchaseDate string    `json:"purchase_date" gorm:"size:10"`
	Store        string    `json:"store" gorm:"size:120;index"`
	Staff        string    `json:"staff" gorm:"size:120"`
	ModelName    string    `json:"model_name" gorm:"size:120"`
	Memory       string    `json:"memory" gorm:"size:40"`
	Color        string    `json:"color" gorm:"size:60"`
	IMEI         string    `json:"imei" gorm:"size:60"`
	Complect     string    `json:"complect" gorm:"type:text"`
	Neispravnost string    `json:"neispravnost" gorm:"type:text"`
	Appearance   string    `json:"appearance" gorm:"type:text"`
	Customer     string    `json:"customer" gorm:"size:160"`
	PhoneKlienta string    `json:"phone_klienta" gorm:"size:40"`
	Status       string    `json:"status" gorm:"size:40"`
	DiagPay      string    `json:"diag_pay" gorm:"size:40"`
	Payments     string    `json:"payments" gorm:"type:text"`
	IssuedDate   string    `json:"issued_date" gorm:"size:10"`
	IssuedStaff  string    `json:"issued_staff" gorm:"size:120"`
	Note         string    `json:"note" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DiagnosticRow) TableName() string {
	return "shop_diagnostics"
}

// DiagnosticPatch частичное обновление живой строки заявки.
type DiagnosticPatch struct {
	Status      *string
	DiagPay     *string
	Payments    *string
	IssuedDate  *string
	IssuedStaff *string
	Note        *string
}

// Fields возвращает только заданные поля под обновление gorm.
func (p DiagnosticPatch) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.DiagPay != nil {
		out["diag_pay"] = *p.DiagPay
	}
	if p.Payments != nil {
		out["payments"] = *p.Payments
	}
	if p.IssuedDate != nil {
		out["issued_date"] = *p.IssuedDate
	}
	if p.IssuedStaff != nil {
		out["issued_staff"] = *p.IssuedStaff
	}
	if p.Note != nil {
		out["note"] = *p.Note
	}
	return out
}
