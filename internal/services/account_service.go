package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/models/response_models"
	"reelcraft/internal/repositories"
	"reelcraft/pkg/utils"
)

type AccountServiceInterface interface {
	EnsureAccount(ctx context.Context, email, name string) (*response_models.AccountResponse, bool, error)
	FindByEmail(ctx context.Context, email string) (*response_models.AccountResponse, error)
	GetSubscription(ctx context.Context, accountID uuid.UUID) (*response_models.SubscriptionResponse, error)
	ListGenerations(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*response_models.Page[response_models.GenerationHistoryItem], error)
	Overview(ctx context.Context, accountID uuid.UUID, recent int) (*response_models.AccountOverviewResponse, error)
}

type AccountService struct {
	tx          infra.Transactor
	accountRepo repositories.AccountRepository
	history     repositories.GenerationRepository
	ledger      LedgerServiceInterface
	logger      *logrus.Logger
}

func NewAccountService(
	tx infra.Transactor,
	accountRepo repositories.AccountRepository,
	history repositories.GenerationRepository,
	ledger LedgerServiceInterface,
	logger *logrus.Logger,
) AccountServiceInterface {
	return &AccountService{
		tx:          tx,
		accountRepo: accountRepo,
		history:     history,
		ledger:      ledger,
		logger:      logger,
	}
}

// EnsureAccount returns the account for email, creating it together with its
// free subscription on first sign-in. The bool reports whether it was created.
func (a *AccountService) EnsureAccount(ctx context.Context, email, name string) (*response_models.AccountResponse, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, fmt.Errorf("%w: invalid email", utils.ErrValidationFailed)
	}

	var (
		account *db_models.Account
		created bool
	)
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := a.accountRepo.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if existing != nil {
			account = existing
			return nil
		}

		account = &db_models.Account{Email: email, Name: strings.TrimSpace(name)}
		if err := a.accountRepo.Insert(ctx, account); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if _, err := a.ledger.OpenSubscription(ctx, account.ID); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		a.logger.WithField("account_id", account.ID).Info("account created")
	}
	return toAccountResponse(account), created, nil
}

func (a *AccountService) FindByEmail(ctx context.Context, email string) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return toAccountResponse(account), nil
}

// GetSubscription applies a due rollover before reporting, so the numbers
// shown match what the next request will be checked against.
func (a *AccountService) GetSubscription(ctx context.Context, accountID uuid.UUID) (*response_models.SubscriptionResponse, error) {
	sub, err := a.ledger.RolloverIfDue(ctx, accountID)
	if err != nil {
		return nil, err
	}
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

func (a *AccountService) ListGenerations(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*response_models.Page[response_models.GenerationHistoryItem], error) {
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}
	records, total, err := a.history.ListByAccount(ctx, accountID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	items := make([]response_models.GenerationHistoryItem, 0, len(records))
	for i := range records {
		items = append(items, toHistoryItem(&records[i]))
	}
	return &response_models.Page[response_models.GenerationHistoryItem]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Overview loads the subscription and the latest history entries in parallel.
func (a *AccountService) Overview(ctx context.Context, accountID uuid.UUID, recent int) (*response_models.AccountOverviewResponse, error) {
	if recent <= 0 || recent > 50 {
		recent = 5
	}

	var (
		sub   *response_models.SubscriptionResponse
		items []response_models.GenerationHistoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sub, err = a.GetSubscription(gctx, accountID)
		return err
	})
	g.Go(func() error {
		page, err := a.ListGenerations(gctx, accountID, 1, recent)
		if err != nil {
			return err
		}
		items = page.Items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &response_models.AccountOverviewResponse{
		AccountID:    accountID.String(),
		Subscription: *sub,
		Recent:       items,
	}, nil
}
