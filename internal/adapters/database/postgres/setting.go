package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingStorage keeps the preferences of one scope in the settings table.
type SettingStorage struct {
	db    *gorm.DB
	scope string
}

func NewSettingStorage(db *gorm.DB, scope string) *SettingStorage {
	return &SettingStorage{
		db:    db,
		scope: scope,
	}
}

// Get is a function that gets a setting value by key.
func (s *SettingStorage) Get(ctx context.Context, key string) (string, error) {
	var setting entity.Setting
	err := s.db.WithContext(ctx).Where("scope = ? AND key = ?", s.scope, key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errorz.ErrNotFound
	}
	return setting.Value, err
}

// Set is a function that creates or replaces a setting value.
func (s *SettingStorage) Set(ctx context.Context, key, value string) error {
	setting := entity.Setting{
		Scope:     s.scope,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
