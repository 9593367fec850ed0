package model

import "time"

type Job struct {
	JobID                   string     `gorm:"column:job_id;type:varchar(64);primaryKey"`
	CompanyID               string     `gorm:"column:company_id;type:varchar(64);not null;index"`
	Title                   string     `gorm:"column:title;type:text;not null"`
	CustomerName            string     `gorm:"column:customer_name;type:text;not null"`
	Priority                string     `gorm:"column:priority;type:varchar(16);not null;default:medium"`
	TechnicianID            *string    `gorm:"column:technician_id;type:varchar(64);index"`
	EquipmentIntake         bool       `gorm:"column:equipment_intake;not null;default:false"`
	EstimatedCompletionDate *time.Time `gorm:"column:estimated_completion_date"`
	ClaimedAt               *time.Time `gorm:"column:claimed_at"`
	CreatedAt               time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt               time.Time  `gorm:"column:updated_at;not null"`
}

func (Job) TableName() string {
	return "jobs"
}
