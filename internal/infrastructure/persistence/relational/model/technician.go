package model

// Technician is a read-only mirror of the technician directory.
type Technician struct {
	TechnicianID string `gorm:"column:technician_id;type:varchar(64);primaryKey"`
	CompanyID    string `gorm:"column:company_id;type:varchar(64);not null;index"`
	Name         string `gorm:"column:name;type:text;not null"`
}

func (Technician) TableName() string {
	return "technicians"
}
