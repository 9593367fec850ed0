package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workshopd/internal/domain/workshop"
	"workshopd/internal/infrastructure/persistence/relational/model"
	"workshopd/internal/ports"
)

type SettingsRepository struct {
	conn
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{conn: conn{db: db}}
}

func (r *SettingsRepository) GetSettings(ctx context.Context, companyID string) (workshop.Settings, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return workshop.Settings{}, err
	}

	var row model.WorkshopSettings
	if err := db.Where("company_id = ?", companyID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workshop.Settings{}, ports.ErrSettingsNotFound
		}
		return workshop.Settings{}, dbError(err, "query workshop settings")
	}
	return mapSettings(row), nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, settings workshop.Settings) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := settingsRow(settings)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return dbError(err, "upsert workshop settings")
	}
	return nil
}

func settingsRow(s workshop.Settings) model.WorkshopSettings {
	templates := make(datatypes.JSONMap, len(s.Templates))
	for k, v := range s.Templates {
		templates[k] = v
	}
	return model.WorkshopSettings{
		CompanyID:                   s.CompanyID,
		MaxConcurrentJobs:           s.MaxConcurrentJobs,
		MaxJobsPerTechnician:        s.MaxJobsPerTechnician,
		DefaultEstimatedRepairHours: s.DefaultEstimatedRepairHours,
		DefaultPickupDeliveryFee:    s.DefaultPickupDeliveryFee,
		NotifyOnIntake:              s.NotifyOnIntake,
		NotifyOnReady:               s.NotifyOnReady,
		NotifyOnStatusChange:        s.NotifyOnStatusChange,
		Templates:                   templates,
		ContactName:                 s.Contact.Name,
		ContactPhone:                s.Contact.Phone,
		ContactEmail:                s.Contact.Email,
		ContactAddress:              s.Contact.Address,
		UpdatedAt:                   s.UpdatedAt.UTC(),
	}
}

func mapSettings(row model.WorkshopSettings) workshop.Settings {
	templates := make(map[string]string, len(row.Templates))
	for k, v := range row.Templates {
		if s, ok := v.(string); ok {
			templates[k] = s
			continue
		}
		templates[k] = fmt.Sprint(v)
	}
	return workshop.Settings{
		CompanyID:                   row.CompanyID,
		MaxConcurrentJobs:           row.MaxConcurrentJobs,
		MaxJobsPerTechnician:        row.MaxJobsPerTechnician,
		DefaultEstimatedRepairHours: row.DefaultEstimatedRepairHours,
		DefaultPickupDeliveryFee:    row.DefaultPickupDeliveryFee,
		NotifyOnIntake:              row.NotifyOnIntake,
		NotifyOnReady:               row.NotifyOnReady,
		NotifyOnStatusChange:        row.NotifyOnStatusChange,
		Templates:                   templates,
		Contact: workshop.Contact{
			Name:    row.ContactName,
			Phone:   row.ContactPhone,
			Email:   row.ContactEmail,
			Address: row.ContactAddress,
		},
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
