package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/repositories"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

const storyExcerptRunes = 140

// GenerationParams is what gets recorded about a request. The full story
// text is kept only as a digest.
type GenerationParams struct {
	StoryText     string               `json:"-"`
	VoiceID       string               `json:"voice_id"`
	MusicSelector string               `json:"music_selector"`
	MusicURL      string               `json:"music_url"`
	StoryType     string               `json:"story_type"`
	Orientation   string               `json:"orientation"`
	LengthTier    db_models.LengthTier `json:"length_tier"`
	StoryExcerpt  string               `json:"story_excerpt"`
	StoryDigest   string               `json:"story_digest"`
}

type SettlementInput struct {
	AccountID    uuid.UUID
	Cost         int64
	Params       GenerationParams
	Artifacts    ArtifactRefs
	Unrestricted bool
	TraceID      string
}

type SettlementServiceInterface interface {
	Settle(ctx context.Context, in SettlementInput) (*db_models.GenerationRecord, *db_models.Subscription, error)
	ListConflicts(ctx context.Context, limit int) ([]db_models.SettlementConflict, error)
	ResolveConflict(ctx context.Context, id uuid.UUID, note string) error
}

type SettlementService struct {
	tx        infra.Transactor
	ledger    LedgerServiceInterface
	history   repositories.GenerationRepository
	conflicts repositories.SettlementConflictRepository
	clock     utils.Clock
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

func NewSettlementService(
	tx infra.Transactor,
	ledger LedgerServiceInterface,
	history repositories.GenerationRepository,
	conflicts repositories.SettlementConflictRepository,
	clock utils.Clock,
	m *metrics.Metrics,
	logger *logrus.Logger,
) SettlementServiceInterface {
	return &SettlementService{
		tx:        tx,
		ledger:    ledger,
		history:   history,
		conflicts: conflicts,
		clock:     clock,
		metrics:   m,
		logger:    logger,
	}
}

// Settle debits the ledger and appends the history row in one transaction.
// If either fails nothing is written, the conflict is persisted for
// reconciliation and ErrSettlementConflict is returned.
//
// Unrestricted accounts that have run past their limit are recorded with
// UnitsCharged = 0 instead of failing.
func (s *SettlementService) Settle(ctx context.Context, in SettlementInput) (*db_models.GenerationRecord, *db_models.Subscription, error) {
	var (
		record *db_models.GenerationRecord
		sub    *db_models.Subscription
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		charged := in.Cost
		var err error
		sub, err = s.ledger.Debit(ctx, in.AccountID, in.Cost)
		if err != nil {
			if !in.Unrestricted || !errors.Is(err, utils.ErrInsufficientUnits) {
				return err
			}
			charged = 0
			if sub, err = s.ledger.GetSubscription(ctx, in.AccountID); err != nil {
				return err
			}
		}

		record, err = s.newRecord(in, charged)
		if err != nil {
			return err
		}
		if err := s.history.Create(ctx, record); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		return nil
	})
	if err != nil {
		s.recordConflict(ctx, in, err)
		return nil, nil, fmt.Errorf("%w: %v", utils.ErrSettlementConflict, err)
	}

	result := "settled"
	if record.UnitsCharged == 0 {
		result = "waived"
	}
	s.metrics.SettlementsTotal.WithLabelValues(result).Inc()
	s.logger.WithFields(logrus.Fields{
		"account_id":    in.AccountID,
		"trace_id":      in.TraceID,
		"record_id":     record.ID,
		"units_charged": record.UnitsCharged,
		"units_used":    sub.UnitsUsed,
	}).Info("generation settled")
	return record, sub, nil
}

func (s *SettlementService) newRecord(in SettlementInput, charged int64) (*db_models.GenerationRecord, error) {
	artifacts, err := jsonRaw(in.Artifacts)
	if err != nil {
		return nil, err
	}
	return &db_models.GenerationRecord{
		AccountID:     in.AccountID,
		TraceID:       in.TraceID,
		StoryExcerpt:  in.Params.StoryExcerpt,
		StoryDigest:   in.Params.StoryDigest,
		VoiceID:       in.Params.VoiceID,
		MusicSelector: in.Params.MusicSelector,
		MusicURL:      in.Params.MusicURL,
		StoryType:     in.Params.StoryType,
		Orientation:   in.Params.Orientation,
		LengthTier:    in.Params.LengthTier,
		UnitCost:      in.Cost,
		UnitsCharged:  charged,
		Unrestricted:  in.Unrestricted,
		VideoURL:      in.Artifacts.VideoURL,
		Artifacts:     artifacts,
		SettledAt:     s.clock.Now().Unix(),
	}, nil
}

// recordConflict never fails the caller: if the conflict row itself cannot be
// stored, the log line is the reconciliation trail.
func (s *SettlementService) recordConflict(ctx context.Context, in SettlementInput, cause error) {
	s.metrics.SettlementsTotal.WithLabelValues("conflict").Inc()

	entry := s.logger.WithFields(logrus.Fields{
		"account_id": in.AccountID,
		"trace_id":   in.TraceID,
		"unit_cost":  in.Cost,
		"video_url":  in.Artifacts.VideoURL,
		"job_id":     in.Artifacts.JobID,
	}).WithError(cause)

	conflict := &db_models.SettlementConflict{
		AccountID: in.AccountID,
		TraceID:   in.TraceID,
		UnitCost:  in.Cost,
		Reason:    cause.Error(),
		Request:   s.conflictJSON(entry, "request", in.Params),
		Artifacts: s.conflictJSON(entry, "artifacts", in.Artifacts),
	}
	if err := s.conflicts.Create(ctx, conflict); err != nil {
		entry.WithField("store_error", err.Error()).Error("settlement conflict could not be persisted")
		return
	}
	entry.WithField("conflict_id", conflict.ID).Error("settlement conflict recorded")
}

func (s *SettlementService) ListConflicts(ctx context.Context, limit int) ([]db_models.SettlementConflict, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	conflicts, err := s.conflicts.ListUnresolved(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return conflicts, nil
}

func (s *SettlementService) ResolveConflict(ctx context.Context, id uuid.UUID, note string) error {
	ok, err := s.conflicts.Resolve(ctx, id, note, s.clock.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !ok {
		return fmt.Errorf("%w: no open settlement conflict %s", utils.ErrValidationFailed, id)
	}
	s.logger.WithField("conflict_id", id).Info("settlement conflict resolved")
	return nil
}

// conflictJSON stores JSON null when a column cannot be encoded so the
// conflict row is still written.
func (s *SettlementService) conflictJSON(entry *logrus.Entry, column string, v any) []byte {
	b, err := jsonRaw(v)
	if err != nil {
		entry.WithField("column", column).WithError(err).Warn("settlement conflict column not encoded")
		return []byte("null")
	}
	return b
}

func jsonRaw(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return b, nil
}
