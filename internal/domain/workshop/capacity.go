package workshop

// CapacitySnapshot holds active-job counts read in the same transaction as the admission.
// WorkshopActive excludes the job being admitted.
type CapacitySnapshot struct {
	WorkshopActive   int64
	TechnicianID     string
	TechnicianActive int64
}

// CheckCapacity enforces both ceilings. The technician ceiling is skipped when
// no technician is involved in the admission.
func CheckCapacity(settings Settings, snap CapacitySnapshot) error {
	if snap.WorkshopActive >= int64(settings.MaxConcurrentJobs) {
		return &CapacityError{
			Scope:   CapacityScopeWorkshop,
			Limit:   settings.MaxConcurrentJobs,
			Current: snap.WorkshopActive,
		}
	}
	if snap.TechnicianID == "" {
		return nil
	}
	if snap.TechnicianActive >= int64(settings.MaxJobsPerTechnician) {
		return &CapacityError{
			Scope:   CapacityScopeTechnician,
			Subject: snap.TechnicianID,
			Limit:   settings.MaxJobsPerTechnician,
			Current: snap.TechnicianActive,
		}
	}
	return nil
}

// Utilization returns active/max as a percentage.
func Utilization(active int64, maxConcurrent int) float64 {
	if maxConcurrent <= 0 {
		return 0
	}
	return float64(active) / float64(maxConcurrent) * 100
}
