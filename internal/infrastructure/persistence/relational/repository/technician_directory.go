package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workshopd/internal/infrastructure/persistence/relational/model"
	"workshopd/internal/ports"
)

// TechnicianDirectory resolves technician names from the mirrored directory table.
type TechnicianDirectory struct {
	conn
}

var _ ports.Directory = (*TechnicianDirectory)(nil)

func NewTechnicianDirectory(db *gorm.DB) *TechnicianDirectory {
	return &TechnicianDirectory{conn: conn{db: db}}
}

func (d *TechnicianDirectory) TechnicianNames(ctx context.Context, technicianIDs []string) (map[string]string, error) {
	if len(technicianIDs) == 0 {
		return map[string]string{}, nil
	}

	db, err := d.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Technician
	if err := db.Where("technician_id IN ?", technicianIDs).Find(&rows).Error; err != nil {
		return nil, dbError(err, "query technicians")
	}

	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.TechnicianID] = row.Name
	}
	return names, nil
}

// SaveTechnician mirrors one directory record.
func (d *TechnicianDirectory) SaveTechnician(ctx context.Context, companyID string, technicianID string, name string) error {
	db, err := d.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Technician{TechnicianID: technicianID, CompanyID: companyID, Name: name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "technician_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_id", "name"}),
	}).Create(&row).Error; err != nil {
		return dbError(err, "upsert technician")
	}
	return nil
}
