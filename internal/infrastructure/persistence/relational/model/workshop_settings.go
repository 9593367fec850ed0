package model

import (
	"time"

	"gorm.io/datatypes"
)

type WorkshopSettings struct {
	CompanyID                   string            `gorm:"column:company_id;type:varchar(64);primaryKey"`
	MaxConcurrentJobs           int               `gorm:"column:max_concurrent_jobs;not null"`
	MaxJobsPerTechnician        int               `gorm:"column:max_jobs_per_technician;not null"`
	DefaultEstimatedRepairHours float64           `gorm:"column:default_estimated_repair_hours;not null;default:0"`
	DefaultPickupDeliveryFee    float64           `gorm:"column:default_pickup_delivery_fee;not null;default:0"`
	NotifyOnIntake              bool              `gorm:"column:notify_on_intake;not null"`
	NotifyOnReady               bool              `gorm:"column:notify_on_ready;not null"`
	NotifyOnStatusChange        bool              `gorm:"column:notify_on_status_change;not null"`
	Templates                   datatypes.JSONMap `gorm:"column:templates"`
	ContactName                 string            `gorm:"column:contact_name;type:text;not null;default:''"`
	ContactPhone                string            `gorm:"column:contact_phone;type:text;not null;default:''"`
	ContactEmail                string            `gorm:"column:contact_email;type:text;not null;default:''"`
	ContactAddress              string            `gorm:"column:contact_address;type:text;not null;default:''"`
	UpdatedAt                   time.Time         `gorm:"column:updated_at;not null"`
}

func (WorkshopSettings) TableName() string {
	return "workshop_settings"
}
