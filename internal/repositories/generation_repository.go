package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
)

type GenerationRepository interface {
	Create(ctx context.Context, record *db_models.GenerationRecord) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]db_models.GenerationRecord, int64, error)
}

type generationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(ctx context.Context, record *db_models.GenerationRecord) error {
	return infra.Conn(ctx, r.db).Create(record).Error
}

// ListByAccount returns newest first.
func (r *generationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, offset, limit int) ([]db_models.GenerationRecord, int64, error) {
	var (
		records []db_models.GenerationRecord
		total   int64
	)
	q := infra.Conn(ctx, r.db).Model(&db_models.GenerationRecord{}).Where("account_id = ?", accountID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("settled_at DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
