package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"workshopd/internal/domain/workshop"
	"workshopd/internal/infrastructure/persistence/relational/model"
	"workshopd/internal/ports"
)

type StatusRepository struct {
	conn
}

var _ ports.StatusRepository = (*StatusRepository)(nil)

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{conn: conn{db: db}}
}

func (r *StatusRepository) CreateStatus(ctx context.Context, status workshop.EquipmentStatus, entry workshop.HistoryEntry) error {
	return r.inTx(ctx, func(txCtx context.Context) error {
		db, err := r.dbFromContext(txCtx)
		if err != nil {
			return err
		}

		var existing int64
		if err := db.Model(&model.EquipmentStatus{}).Where("job_id = ?", status.JobID).Count(&existing).Error; err != nil {
			return dbError(err, "count equipment status")
		}
		if existing > 0 {
			return ports.ErrStatusExists
		}

		row := statusRow(status)
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrStatusExists
			}
			return dbError(err, "insert equipment status")
		}

		historyRow := historyRow(entry)
		if err := db.Create(&historyRow).Error; err != nil {
			return dbError(err, "insert initial history entry")
		}
		return nil
	})
}

func (r *StatusRepository) GetStatus(ctx context.Context, jobID string) (workshop.EquipmentStatus, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return workshop.EquipmentStatus{}, err
	}

	var row model.EquipmentStatus
	if err := db.Where("job_id = ?", jobID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workshop.EquipmentStatus{}, ports.ErrStatusNotFound
		}
		return workshop.EquipmentStatus{}, dbError(err, "query equipment status")
	}
	return mapStatus(row), nil
}

func (r *StatusRepository) UpdateStatus(ctx context.Context, next workshop.EquipmentStatus, expectedVersion uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := statusRow(next)
	result := db.Model(&model.EquipmentStatus{}).
		Where("job_id = ? AND version = ?", next.JobID, expectedVersion).
		Updates(map[string]any{
			"current_status":      row.CurrentStatus,
			"pending_intake_at":   row.PendingIntakeAt,
			"in_transit_at":       row.InTransitAt,
			"received_at":         row.ReceivedAt,
			"in_repair_at":        row.InRepairAt,
			"repair_completed_at": row.RepairCompletedAt,
			"ready_for_pickup_at": row.ReadyForPickupAt,
			"out_for_delivery_at": row.OutForDeliveryAt,
			"returned_at":         row.ReturnedAt,
			"version":             row.Version,
			"updated_at":          row.UpdatedAt,
		})
	if result.Error != nil {
		return dbError(result.Error, "update equipment status")
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var existing int64
	if err := db.Model(&model.EquipmentStatus{}).Where("job_id = ?", next.JobID).Count(&existing).Error; err != nil {
		return dbError(err, "count equipment status")
	}
	if existing == 0 {
		return ports.ErrStatusNotFound
	}
	return ports.ErrVersionConflict
}

func (r *StatusRepository) AppendHistory(ctx context.Context, entry workshop.HistoryEntry) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := historyRow(entry)
	if err := db.Create(&row).Error; err != nil {
		return dbError(err, "insert history entry")
	}
	return nil
}

func (r *StatusRepository) ListHistory(ctx context.Context, jobID string) ([]workshop.HistoryEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.EquipmentStatusHistory
	if err := db.
		Where("job_id = ?", jobID).
		Order("changed_at asc, seq asc").
		Find(&rows).Error; err != nil {
		return nil, dbError(err, "query history")
	}
	return mapHistory(rows), nil
}

func (r *StatusRepository) ListHistoryBetween(ctx context.Context, companyID string, from time.Time, to time.Time) ([]workshop.HistoryEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Table("equipment_status_history AS h").
		Select("h.*").
		Joins("JOIN jobs j ON j.job_id = h.job_id").
		Where("h.changed_at >= ? AND h.changed_at < ?", from.UTC(), to.UTC())
	if companyID = strings.TrimSpace(companyID); companyID != "" {
		query = query.Where("j.company_id = ?", companyID)
	}

	var rows []model.EquipmentStatusHistory
	if err := query.Order("h.changed_at asc, h.seq asc").Find(&rows).Error; err != nil {
		return nil, dbError(err, "query history window")
	}
	return mapHistory(rows), nil
}

func (r *StatusRepository) ListStatuses(ctx context.Context, filter ports.StatusFilter) ([]workshop.EquipmentStatus, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Table("equipment_statuses AS s").
		Select("s.*").
		Joins("JOIN jobs j ON j.job_id = s.job_id")
	if companyID := strings.TrimSpace(filter.CompanyID); companyID != "" {
		query = query.Where("j.company_id = ?", companyID)
	}
	if len(filter.JobIDs) > 0 {
		query = query.Where("s.job_id IN ?", filter.JobIDs)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("s.current_status IN ?", statusStrings(filter.Statuses))
	}

	var rows []model.EquipmentStatus
	if err := query.Order("s.created_at asc, s.job_id asc").Find(&rows).Error; err != nil {
		return nil, dbError(err, "query equipment statuses")
	}

	items := make([]workshop.EquipmentStatus, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapStatus(row))
	}
	return items, nil
}

func (r *StatusRepository) CountActive(ctx context.Context, filter ports.ActiveCountFilter) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	query := db.Table("equipment_statuses AS s").
		Joins("JOIN jobs j ON j.job_id = s.job_id").
		Where("s.current_status IN ?", statusStrings(workshop.ActiveStatuses()))
	if companyID := strings.TrimSpace(filter.CompanyID); companyID != "" {
		query = query.Where("j.company_id = ?", companyID)
	}
	if technicianID := strings.TrimSpace(filter.TechnicianID); technicianID != "" {
		query = query.Where("j.technician_id = ?", technicianID)
	}
	if excluded := strings.TrimSpace(filter.ExcludeJobID); excluded != "" {
		query = query.Where("s.job_id <> ?", excluded)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, dbError(err, "count active jobs")
	}
	return count, nil
}

func (r *StatusRepository) CountActiveByTechnician(ctx context.Context, companyID string) (map[string]int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Table("equipment_statuses AS s").
		Select("j.technician_id AS technician_id, count(*) AS total").
		Joins("JOIN jobs j ON j.job_id = s.job_id").
		Where("s.current_status IN ?", statusStrings(workshop.ActiveStatuses())).
		Where("j.technician_id IS NOT NULL AND j.technician_id <> ''")
	if companyID = strings.TrimSpace(companyID); companyID != "" {
		query = query.Where("j.company_id = ?", companyID)
	}

	var rows []struct {
		TechnicianID string
		Total        int64
	}
	if err := query.Group("j.technician_id").Scan(&rows).Error; err != nil {
		return nil, dbError(err, "count active jobs by technician")
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.TechnicianID] = row.Total
	}
	return out, nil
}

func statusStrings(in []workshop.Status) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func statusRow(status workshop.EquipmentStatus) model.EquipmentStatus {
	ts := status.Timestamps
	return model.EquipmentStatus{
		JobID:             status.JobID,
		CurrentStatus:     string(status.CurrentStatus),
		PendingIntakeAt:   utcPtr(ts.PendingIntakeAt),
		InTransitAt:       utcPtr(ts.InTransitAt),
		ReceivedAt:        utcPtr(ts.ReceivedAt),
		InRepairAt:        utcPtr(ts.InRepairAt),
		RepairCompletedAt: utcPtr(ts.RepairCompletedAt),
		ReadyForPickupAt:  utcPtr(ts.ReadyForPickupAt),
		OutForDeliveryAt:  utcPtr(ts.OutForDeliveryAt),
		ReturnedAt:        utcPtr(ts.ReturnedAt),
		Version:           status.Version,
		CreatedAt:         status.CreatedAt.UTC(),
		UpdatedAt:         status.UpdatedAt.UTC(),
	}
}

func mapStatus(row model.EquipmentStatus) workshop.EquipmentStatus {
	return workshop.EquipmentStatus{
		JobID:         row.JobID,
		CurrentStatus: workshop.Status(row.CurrentStatus),
		Timestamps: workshop.StatusTimestamps{
			PendingIntakeAt:   utcPtr(row.PendingIntakeAt),
			InTransitAt:       utcPtr(row.InTransitAt),
			ReceivedAt:        utcPtr(row.ReceivedAt),
			InRepairAt:        utcPtr(row.InRepairAt),
			RepairCompletedAt: utcPtr(row.RepairCompletedAt),
			ReadyForPickupAt:  utcPtr(row.ReadyForPickupAt),
			OutForDeliveryAt:  utcPtr(row.OutForDeliveryAt),
			ReturnedAt:        utcPtr(row.ReturnedAt),
		},
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func historyRow(entry workshop.HistoryEntry) model.EquipmentStatusHistory {
	return model.EquipmentStatusHistory{
		EntryID:    entry.ID,
		JobID:      entry.JobID,
		FromStatus: string(entry.FromStatus),
		ToStatus:   string(entry.ToStatus),
		ChangedAt:  entry.ChangedAt.UTC(),
		ChangedBy:  entry.ChangedBy,
		Notes:      entry.Notes,
	}
}

func mapHistory(rows []model.EquipmentStatusHistory) []workshop.HistoryEntry {
	items := make([]workshop.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, workshop.HistoryEntry{
			ID:         row.EntryID,
			Seq:        row.Seq,
			JobID:      row.JobID,
			FromStatus: workshop.Status(row.FromStatus),
			ToStatus:   workshop.Status(row.ToStatus),
			ChangedAt:  row.ChangedAt.UTC(),
			ChangedBy:  row.ChangedBy,
			Notes:      row.Notes,
		})
	}
	return items
}
