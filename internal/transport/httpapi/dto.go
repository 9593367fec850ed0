package httpapi

import (
	"time"

	domain "workshopd/internal/domain/workshop"
)

type errorResponse struct {
	Error string `json:"error"`
}

type registerJobRequest struct {
	JobID                   string     `json:"job_id"`
	Title                   string     `json:"title"`
	CustomerName            string     `json:"customer_name"`
	Priority                string     `json:"priority"`
	TechnicianID            string     `json:"technician_id"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date"`
}

type registerTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
	Name         string `json:"name"`
}

type intakeRequest struct {
	InitialStatus string `json:"initial_status"`
	Actor         string `json:"actor"`
	Notes         string `json:"notes"`
}

type transitionRequest struct {
	ToStatus string `json:"to_status"`
	Actor    string `json:"actor"`
	Notes    string `json:"notes"`
}

type claimRequest struct {
	TechnicianID string `json:"technician_id"`
	Notes        string `json:"notes"`
}

type releaseRequest struct {
	Actor string `json:"actor"`
	Notes string `json:"notes"`
}

type jobResponse struct {
	JobID                   string     `json:"job_id"`
	CompanyID               string     `json:"company_id"`
	Title                   string     `json:"title"`
	CustomerName            string     `json:"customer_name,omitempty"`
	Priority                string     `json:"priority"`
	TechnicianID            string     `json:"technician_id,omitempty"`
	EquipmentIntake         bool       `json:"equipment_intake"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func toJobResponse(j domain.Job) jobResponse {
	return jobResponse{
		JobID:                   j.JobID,
		CompanyID:               j.CompanyID,
		Title:                   j.Title,
		CustomerName:            j.CustomerName,
		Priority:                string(j.Priority),
		TechnicianID:            j.TechnicianID,
		EquipmentIntake:         j.EquipmentIntake,
		EstimatedCompletionDate: j.EstimatedCompletionDate,
		CreatedAt:               j.CreatedAt,
		UpdatedAt:               j.UpdatedAt,
	}
}

type statusResponse struct {
	JobID             string     `json:"job_id"`
	CurrentStatus     string     `json:"current_status"`
	PendingIntakeAt   *time.Time `json:"pending_intake_at,omitempty"`
	InTransitAt       *time.Time `json:"in_transit_at,omitempty"`
	ReceivedAt        *time.Time `json:"received_at,omitempty"`
	InRepairAt        *time.Time `json:"in_repair_at,omitempty"`
	RepairCompletedAt *time.Time `json:"repair_completed_at,omitempty"`
	ReadyForPickupAt  *time.Time `json:"ready_for_pickup_at,omitempty"`
	OutForDeliveryAt  *time.Time `json:"out_for_delivery_at,omitempty"`
	ReturnedAt        *time.Time `json:"returned_at,omitempty"`
	Version           uint64     `json:"version"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toStatusResponse(s domain.EquipmentStatus) statusResponse {
	ts := s.Timestamps
	return statusResponse{
		JobID:             s.JobID,
		CurrentStatus:     string(s.CurrentStatus),
		PendingIntakeAt:   ts.PendingIntakeAt,
		InTransitAt:       ts.InTransitAt,
		ReceivedAt:        ts.ReceivedAt,
		InRepairAt:        ts.InRepairAt,
		RepairCompletedAt: ts.RepairCompletedAt,
		ReadyForPickupAt:  ts.ReadyForPickupAt,
		OutForDeliveryAt:  ts.OutForDeliveryAt,
		ReturnedAt:        ts.ReturnedAt,
		Version:           s.Version,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

type historyEntryResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangedBy  string    `json:"changed_by"`
	Notes      string    `json:"notes,omitempty"`
}

func toHistoryResponse(entries []domain.HistoryEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntryResponse{
			ID:         e.ID,
			JobID:      e.JobID,
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			ChangedAt:  e.ChangedAt,
			ChangedBy:  e.ChangedBy,
			Notes:      e.Notes,
		})
	}
	return out
}

type allowedTransitionsResponse struct {
	JobID   string   `json:"job_id"`
	Allowed []string `json:"allowed"`
}

type queueEntryResponse struct {
	JobID        string    `json:"job_id"`
	Title        string    `json:"title"`
	CustomerName string    `json:"customer_name,omitempty"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	IntakeAt     time.Time `json:"intake_at"`
	DaysWaiting  int       `json:"days_waiting"`
}

func toQueueEntryResponse(e domain.QueueEntry) queueEntryResponse {
	return queueEntryResponse{
		JobID:        e.JobID,
		Title:        e.Title,
		CustomerName: e.CustomerName,
		Priority:     string(e.Priority),
		Status:       string(e.Status),
		IntakeAt:     e.IntakeAt,
		DaysWaiting:  e.DaysWaiting,
	}
}

type technicianLoadResponse struct {
	TechnicianID string `json:"technician_id"`
	Name         string `json:"name,omitempty"`
	ActiveJobs   int64  `json:"active_jobs"`
}

type metricsResponse struct {
	DateFrom                   string                   `json:"date_from"`
	DateTo                     string                   `json:"date_to"`
	TotalJobs                  int                      `json:"total_jobs"`
	JobsByStatus               map[string]int           `json:"jobs_by_status"`
	CompletedJobs              int                      `json:"completed_jobs"`
	AverageRepairTimeHours     float64                  `json:"average_repair_time_hours"`
	OnTimeCompletionRate       float64                  `json:"on_time_completion_rate"`
	ActiveJobs                 int64                    `json:"active_jobs"`
	CurrentCapacityUtilization float64                  `json:"current_capacity_utilization"`
	JobsPerTechnician          []technicianLoadResponse `json:"jobs_per_technician"`
}

func toMetricsResponse(m domain.Metrics) metricsResponse {
	byStatus := make(map[string]int, len(m.JobsByStatus))
	for status, n := range m.JobsByStatus {
		byStatus[string(status)] = n
	}
	loads := make([]technicianLoadResponse, 0, len(m.JobsPerTechnician))
	for _, l := range m.JobsPerTechnician {
		loads = append(loads, technicianLoadResponse{
			TechnicianID: l.TechnicianID,
			Name:         l.Name,
			ActiveJobs:   l.ActiveJobs,
		})
	}
	return metricsResponse{
		DateFrom:                   m.DateFrom.Format(dateLayout),
		DateTo:                     m.DateTo.Format(dateLayout),
		TotalJobs:                  m.TotalJobs,
		JobsByStatus:               byStatus,
		CompletedJobs:              m.CompletedJobs,
		AverageRepairTimeHours:     m.AverageRepairTimeHours,
		OnTimeCompletionRate:       m.OnTimeCompletionRate,
		ActiveJobs:                 m.ActiveJobs,
		CurrentCapacityUtilization: m.CurrentCapacityUtilization,
		JobsPerTechnician:          loads,
	}
}

type contactResponse struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type settingsResponse struct {
	CompanyID                   string            `json:"company_id"`
	MaxConcurrentJobs           int               `json:"max_concurrent_jobs"`
	MaxJobsPerTechnician        int               `json:"max_jobs_per_technician"`
	DefaultEstimatedRepairHours float64           `json:"default_estimated_repair_hours"`
	DefaultPickupDeliveryFee    float64           `json:"default_pickup_delivery_fee"`
	NotifyOnIntake              bool              `json:"notify_on_intake"`
	NotifyOnReady               bool              `json:"notify_on_ready"`
	NotifyOnStatusChange        bool              `json:"notify_on_status_change"`
	Templates                   map[string]string `json:"templates"`
	Contact                     contactResponse   `json:"contact"`
	UpdatedAt                   *time.Time        `json:"updated_at,omitempty"`
}

func toSettingsResponse(s domain.Settings) settingsResponse {
	out := settingsResponse{
		CompanyID:                   s.CompanyID,
		MaxConcurrentJobs:           s.MaxConcurrentJobs,
		MaxJobsPerTechnician:        s.MaxJobsPerTechnician,
		DefaultEstimatedRepairHours: s.DefaultEstimatedRepairHours,
		DefaultPickupDeliveryFee:    s.DefaultPickupDeliveryFee,
		NotifyOnIntake:              s.NotifyOnIntake,
		NotifyOnReady:               s.NotifyOnReady,
		NotifyOnStatusChange:        s.NotifyOnStatusChange,
		Templates:                   s.Templates,
		Contact: contactResponse{
			Name:    s.Contact.Name,
			Phone:   s.Contact.Phone,
			Email:   s.Contact.Email,
			Address: s.Contact.Address,
		},
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}
