package model

// All lists every table the engine migrates, in dependency order.
func All() []any {
	return []any{
		&Job{},
		&Technician{},
		&EquipmentStatus{},
		&EquipmentStatusHistory{},
		&WorkshopSettings{},
		&CacheEntry{},
	}
}
