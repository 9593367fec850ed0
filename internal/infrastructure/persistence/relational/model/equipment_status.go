package model

import "time"

type EquipmentStatus struct {
	JobID             string     `gorm:"column:job_id;type:varchar(64);primaryKey"`
	CurrentStatus     string     `gorm:"column:current_status;type:varchar(32);not null;index"`
	PendingIntakeAt   *time.Time `gorm:"column:pending_intake_at"`
	InTransitAt       *time.Time `gorm:"column:in_transit_at"`
	ReceivedAt        *time.Time `gorm:"column:received_at"`
	InRepairAt        *time.Time `gorm:"column:in_repair_at"`
	RepairCompletedAt *time.Time `gorm:"column:repair_completed_at;index"`
	ReadyForPickupAt  *time.Time `gorm:"column:ready_for_pickup_at"`
	OutForDeliveryAt  *time.Time `gorm:"column:out_for_delivery_at"`
	ReturnedAt        *time.Time `gorm:"column:returned_at"`
	Version           uint64     `gorm:"column:version;not null;default:1"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;not null"`
}

func (EquipmentStatus) TableName() string {
	return "equipment_statuses"
}

// EquipmentStatusHistory rows are insert-only.
type EquipmentStatusHistory struct {
	Seq        uint64    `gorm:"column:seq;primaryKey;autoIncrement"`
	EntryID    string    `gorm:"column:entry_id;type:varchar(36);not null;uniqueIndex"`
	JobID      string    `gorm:"column:job_id;type:varchar(64);not null;index:idx_history_job_changed,priority:1"`
	FromStatus string    `gorm:"column:from_status;type:varchar(32);not null;default:''"`
	ToStatus   string    `gorm:"column:to_status;type:varchar(32);not null"`
	ChangedAt  time.Time `gorm:"column:changed_at;not null;index:idx_history_job_changed,priority:2;index"`
	ChangedBy  string    `gorm:"column:changed_by;type:varchar(64);not null"`
	Notes      string    `gorm:"column:notes;type:text;not null;default:''"`
}

func (EquipmentStatusHistory) TableName() string {
	return "equipment_status_history"
}
