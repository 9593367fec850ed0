package workshop

import (
	"errors"
	"testing"
)

func TestCheckCapacity(t *testing.T) {
	settings := DefaultSettings("acme")
	settings.MaxConcurrentJobs = 2
	settings.MaxJobsPerTechnician = 1

	if err := CheckCapacity(settings, CapacitySnapshot{WorkshopActive: 1, TechnicianID: "tech-1"}); err != nil {
		t.Fatalf("CheckCapacity(room) error = %v", err)
	}

	err := CheckCapacity(settings, CapacitySnapshot{WorkshopActive: 2})
	var capErr *CapacityError
	if !errors.As(err, &capErr) || capErr.Scope != CapacityScopeWorkshop {
		t.Fatalf("CheckCapacity(workshop full) error = %v", err)
	}
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("CheckCapacity(workshop full) not ErrCapacityExceeded: %v", err)
	}

	err = CheckCapacity(settings, CapacitySnapshot{WorkshopActive: 0, TechnicianID: "tech-1", TechnicianActive: 1})
	if !errors.As(err, &capErr) || capErr.Scope != CapacityScopeTechnician || capErr.Subject != "tech-1" {
		t.Fatalf("CheckCapacity(technician full) error = %v", err)
	}
}

func TestUtilization(t *testing.T) {
	if got := Utilization(3, 4); got != 75 {
		t.Fatalf("Utilization(3, 4) = %v", got)
	}
	if got := Utilization(3, 0); got != 0 {
		t.Fatalf("Utilization(3, 0) = %v", got)
	}
}
