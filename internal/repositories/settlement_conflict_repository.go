package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
)

type SettlementConflictRepository interface {
	Create(ctx context.Context, conflict *db_models.SettlementConflict) error
	ListUnresolved(ctx context.Context, limit int) ([]db_models.SettlementConflict, error)
	Resolve(ctx context.Context, id uuid.UUID, note string, at int64) (bool, error)
}

type settlementConflictRepository struct {
	db *gorm.DB
}

func NewSettlementConflictRepository(db *gorm.DB) SettlementConflictRepository {
	return &settlementConflictRepository{db: db}
}

func (r *settlementConflictRepository) Create(ctx context.Context, conflict *db_models.SettlementConflict) error {
	return infra.Conn(ctx, r.db).Create(conflict).Error
}

func (r *settlementConflictRepository) ListUnresolved(ctx context.Context, limit int) ([]db_models.SettlementConflict, error) {
	var conflicts []db_models.SettlementConflict
	err := infra.Conn(ctx, r.db).
		Where("resolved_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&conflicts).Error
	return conflicts, err
}

// Resolve marks an open conflict as handled. Already resolved rows are left
// untouched and report false.
func (r *settlementConflictRepository) Resolve(ctx context.Context, id uuid.UUID, note string, at int64) (bool, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.SettlementConflict{}).
		Where("id = ? AND resolved_at IS NULL", id).
		Updates(map[string]interface{}{
			"resolved_at":     at,
			"resolution_note": note,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
