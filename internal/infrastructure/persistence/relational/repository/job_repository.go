package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/infrastructure/persistence/relational/model"
	"workshopd/internal/ports"
)

type JobRepository struct {
	conn
}

var _ ports.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{conn: conn{db: db}}
}

func (r *JobRepository) CreateJob(ctx context.Context, job workshop.Job) (workshop.Job, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return workshop.Job{}, err
	}

	row := jobRow(job)
	if err := db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return workshop.Job{}, errs.Wrapf(workshop.ErrAlreadyExists, "job %s", job.JobID)
		}
		return workshop.Job{}, dbError(err, "insert job")
	}
	return mapJob(row), nil
}

func (r *JobRepository) GetJob(ctx context.Context, jobID string) (workshop.Job, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return workshop.Job{}, err
	}
	return getJobByID(db, jobID)
}

func (r *JobRepository) GetJobForUpdate(ctx context.Context, jobID string) (workshop.Job, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return workshop.Job{}, err
	}
	return getJobByID(forUpdate(db), jobID)
}

func (r *JobRepository) ListJobs(ctx context.Context, filter ports.JobFilter) ([]workshop.Job, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Job{})
	if companyID := strings.TrimSpace(filter.CompanyID); companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}
	if len(filter.JobIDs) > 0 {
		query = query.Where("job_id IN ?", filter.JobIDs)
	}
	if filter.Unassigned {
		query = query.Where("technician_id IS NULL OR technician_id = ''")
	}

	var rows []model.Job
	if err := query.Order("created_at asc, job_id asc").Find(&rows).Error; err != nil {
		return nil, dbError(err, "query jobs")
	}

	items := make([]workshop.Job, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapJob(row))
	}
	return items, nil
}

func (r *JobRepository) AssignTechnician(ctx context.Context, jobID string, technicianID string, at time.Time) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	result := db.Model(&model.Job{}).
		Where("job_id = ? AND (technician_id IS NULL OR technician_id = '')", jobID).
		Updates(map[string]any{
			"technician_id": technicianID,
			"claimed_at":    at,
			"updated_at":    at,
		})
	if result.Error != nil {
		return false, dbError(result.Error, "assign technician")
	}
	return result.RowsAffected == 1, nil
}

func (r *JobRepository) ClearTechnician(ctx context.Context, jobID string, at time.Time) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&model.Job{}).
		Where("job_id = ?", jobID).
		Updates(map[string]any{
			"technician_id": nil,
			"claimed_at":    nil,
			"updated_at":    at,
		}).Error; err != nil {
		return dbError(err, "clear technician")
	}
	return nil
}

func (r *JobRepository) MarkEquipmentIntake(ctx context.Context, jobID string, at time.Time) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	if err := db.Model(&model.Job{}).
		Where("job_id = ?", jobID).
		Updates(map[string]any{
			"equipment_intake": true,
			"updated_at":       at,
		}).Error; err != nil {
		return dbError(err, "mark equipment intake")
	}
	return nil
}

func getJobByID(db *gorm.DB, jobID string) (workshop.Job, error) {
	var row model.Job
	if err := db.Where("job_id = ?", jobID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workshop.Job{}, ports.ErrJobNotFound
		}
		return workshop.Job{}, dbError(err, "query job")
	}
	return mapJob(row), nil
}

func jobRow(job workshop.Job) model.Job {
	row := model.Job{
		JobID:                   job.JobID,
		CompanyID:               job.CompanyID,
		Title:                   job.Title,
		CustomerName:            job.CustomerName,
		Priority:                string(job.Priority),
		EquipmentIntake:         job.EquipmentIntake,
		EstimatedCompletionDate: utcPtr(job.EstimatedCompletionDate),
		CreatedAt:               job.CreatedAt.UTC(),
		UpdatedAt:               job.UpdatedAt.UTC(),
	}
	if job.TechnicianID != "" {
		technicianID := job.TechnicianID
		row.TechnicianID = &technicianID
	}
	return row
}

func mapJob(row model.Job) workshop.Job {
	return workshop.Job{
		JobID:                   row.JobID,
		CompanyID:               row.CompanyID,
		Title:                   row.Title,
		CustomerName:            row.CustomerName,
		Priority:                workshop.Priority(row.Priority),
		TechnicianID:            derefString(row.TechnicianID),
		EquipmentIntake:         row.EquipmentIntake,
		EstimatedCompletionDate: utcPtr(row.EstimatedCompletionDate),
		CreatedAt:               row.CreatedAt.UTC(),
		UpdatedAt:               row.UpdatedAt.UTC(),
	}
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
