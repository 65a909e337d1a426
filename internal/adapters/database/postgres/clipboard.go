package postgres

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClipboardStorage keeps the last copied image of one scope.
type ClipboardStorage struct {
	db    *gorm.DB
	scope string
}

func NewClipboardStorage(db *gorm.DB, scope string) *ClipboardStorage {
	return &ClipboardStorage{
		db:    db,
		scope: scope,
	}
}

// WriteImage replaces the stored image with img.
func (s *ClipboardStorage) WriteImage(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	record := entity.ClipboardImage{
		Scope:     s.scope,
		Data:      buf.Bytes(),
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
}

// ReadImage returns the stored image or errorz.ErrNotFound.
func (s *ClipboardStorage) ReadImage(ctx context.Context) (image.Image, error) {
	var record entity.ClipboardImage
	err := s.db.WithContext(ctx).Where("scope = ?", s.scope).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(record.Data))
}
