package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateAdminFlag(ctx context.Context, id uuid.UUID, value bool) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return infra.Conn(ctx, a.db).Create(account).Error
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := infra.Conn(ctx, a.db).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := infra.Conn(ctx, a.db).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := infra.Conn(ctx, a.db).Model(&db_models.Account{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateAdminFlag reports false when no account has the id.
func (a *accountRepository) UpdateAdminFlag(ctx context.Context, id uuid.UUID, value bool) (bool, error) {
	res := infra.Conn(ctx, a.db).Model(&db_models.Account{}).
		Where("id = ?", id).
		Update("is_admin", value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
