package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *db_models.AuditEntry) error
	List(ctx context.Context, targetID *uuid.UUID, offset, limit int) ([]db_models.AuditEntry, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *db_models.AuditEntry) error {
	return infra.Conn(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, targetID *uuid.UUID, offset, limit int) ([]db_models.AuditEntry, int64, error) {
	var (
		entries []db_models.AuditEntry
		total   int64
	)
	q := infra.Conn(ctx, r.db).Model(&db_models.AuditEntry{})
	if targetID != nil {
		q = q.Where("target_id = ?", *targetID)
	}
	q = q.Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
