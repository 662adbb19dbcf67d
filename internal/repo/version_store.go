package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rcregistry/internal/models"
)

// VersionStore — глобальная метка версии, строка id=1 таблицы version.
type VersionStore struct{ db *gorm.DB }

func NewVersionStore(db *gorm.DB) *VersionStore { return &VersionStore{db: db} }

// SetVersion перезаписывает строку id=1, создавая её при отсутствии.
func (s *VersionStore) SetVersion(ctx context.Context, version string) error {
	row := models.Version{ID: models.VersionRowID, Version: version}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"version"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("set version: %w", err)
	}
	return nil
}

func (s *VersionStore) GetVersion(ctx context.Context) (string, error) {
	var row models.Version
	err := s.db.WithContext(ctx).Where("id = ?", models.VersionRowID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrVersionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get version: %w", err)
	}
	return row.Version, nil
}
