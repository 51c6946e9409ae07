package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/models/request_models"
	"reelcraft/internal/models/response_models"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

const (
	OrientationLandscape = "landscape"
	OrientationVertical  = "vertical"
)

type GenerationConfig struct {
	UnrestrictedAccounts []string
	MusicLibraryURL      string
	SettlementTimeout    time.Duration
}

type GenerationServiceInterface interface {
	Generate(ctx context.Context, principal *Principal, req request_models.GenerationRequest) (*response_models.GenerationResponse, error)
}

// GenerationService runs one request through authorize, dispatch and settle.
// A dispatch that was accepted upstream is always followed by a settlement
// attempt, even if the caller has gone away.
type GenerationService struct {
	quota        QuotaServiceInterface
	dispatcher   DispatchServiceInterface
	settlement   SettlementServiceInterface
	unrestricted map[uuid.UUID]struct{}
	musicBase    string
	settleWithin time.Duration
	metrics      *metrics.Metrics
	logger       *logrus.Logger
}

func NewGenerationService(
	quota QuotaServiceInterface,
	dispatcher DispatchServiceInterface,
	settlement SettlementServiceInterface,
	cfg GenerationConfig,
	m *metrics.Metrics,
	logger *logrus.Logger,
) GenerationServiceInterface {
	allow := make(map[uuid.UUID]struct{}, len(cfg.UnrestrictedAccounts))
	for _, raw := range cfg.UnrestrictedAccounts {
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.WithField("value", raw).Warn("ignoring malformed unrestricted account id")
			continue
		}
		allow[id] = struct{}{}
	}
	settleWithin := cfg.SettlementTimeout
	if settleWithin <= 0 {
		settleWithin = 10 * time.Second
	}
	return &GenerationService{
		quota:        quota,
		dispatcher:   dispatcher,
		settlement:   settlement,
		unrestricted: allow,
		musicBase:    strings.TrimRight(cfg.MusicLibraryURL, "/"),
		settleWithin: settleWithin,
		metrics:      m,
		logger:       logger,
	}
}

func (g *GenerationService) Generate(ctx context.Context, principal *Principal, req request_models.GenerationRequest) (*response_models.GenerationResponse, error) {
	if principal == nil {
		return nil, utils.ErrUnauthenticated
	}
	traceID := utils.TraceIDFromContext(ctx)

	params, err := g.normalize(req)
	if err != nil {
		g.metrics.GenerationRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	_, unrestricted := g.unrestricted[principal.ID]
	decision, err := g.quota.Authorize(ctx, principal.ID, params.LengthTier, unrestricted)
	if err != nil {
		g.metrics.GenerationRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !decision.Allowed {
		g.metrics.GenerationRequestsTotal.WithLabelValues("denied").Inc()
		return nil, decision.Err()
	}

	// The backend keeps rendering once it acknowledges, so a caller
	// disconnect must not abort the acknowledgement. The dispatch timeout bounds it.
	refs, err := g.dispatcher.Dispatch(context.WithoutCancel(ctx), DispatchRequest{
		StoryText: params.StoryText,
		MusicURL:  params.MusicURL,
		VoiceID:   params.VoiceID,
		StoryType: params.StoryType,
		Vertical:  params.Orientation == OrientationVertical,
		Pro:       decision.Subscription.Plan != db_models.PlanFree,
		Tier:      params.LengthTier,
		TraceID:   traceID,
	})
	if err != nil {
		g.metrics.GenerationRequestsTotal.WithLabelValues("upstream_failed").Inc()
		return nil, err
	}

	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.settleWithin)
	defer cancel()
	record, sub, err := g.settlement.Settle(settleCtx, SettlementInput{
		AccountID:    principal.ID,
		Cost:         decision.Cost,
		Params:       params,
		Artifacts:    *refs,
		Unrestricted: unrestricted,
		TraceID:      traceID,
	})
	if err != nil {
		g.metrics.GenerationRequestsTotal.WithLabelValues("settlement_conflict").Inc()
		return nil, err
	}

	g.metrics.GenerationRequestsTotal.WithLabelValues("accepted").Inc()
	return &response_models.GenerationResponse{
		RecordID:     record.ID.String(),
		VideoURL:     refs.VideoURL,
		AudioURL:     refs.AudioURL,
		ImageURL:     refs.ImageURL,
		UnitCost:     record.UnitCost,
		UnitsCharged: record.UnitsCharged,
		Subscription: ToSubscriptionResponse(sub),
	}, nil
}

// normalize validates what binding tags cannot express and sanitizes the
// story text.
func (g *GenerationService) normalize(req request_models.GenerationRequest) (GenerationParams, error) {
	tier, err := ParseLengthTier(req.LengthTier)
	if err != nil {
		return GenerationParams{}, err
	}
	if len([]rune(req.StoryText)) > 1500 {
		return GenerationParams{}, fmt.Errorf("%w: story_text exceeds 1500 characters", utils.ErrValidationFailed)
	}
	text := utils.SanitizeStoryText(req.StoryText)
	if text == "" {
		return GenerationParams{}, fmt.Errorf("%w: story_text is empty after sanitizing", utils.ErrValidationFailed)
	}

	orientation := req.Orientation
	switch orientation {
	case "":
		orientation = OrientationLandscape
	case OrientationLandscape, OrientationVertical:
	default:
		return GenerationParams{}, fmt.Errorf("%w: unknown orientation %q", utils.ErrValidationFailed, orientation)
	}

	musicURL, err := g.resolveMusic(req.MusicSelector, req.CustomMusicURL)
	if err != nil {
		return GenerationParams{}, err
	}

	return GenerationParams{
		StoryText:     text,
		VoiceID:       strings.TrimSpace(req.VoiceID),
		MusicSelector: req.MusicSelector,
		MusicURL:      musicURL,
		StoryType:     strings.TrimSpace(req.StoryType),
		Orientation:   orientation,
		LengthTier:    tier,
		StoryExcerpt:  utils.Excerpt(text, storyExcerptRunes),
		StoryDigest:   utils.Digest(req.StoryText),
	}, nil
}

// resolveMusic maps a library track name onto the music library. Without a
// configured library the name is passed through for the backend to resolve.
func (g *GenerationService) resolveMusic(selector, customURL string) (string, error) {
	if selector == request_models.MusicSelectorCustom {
		if !usableURL(customURL) {
			return "", fmt.Errorf("%w: custom music requires an http(s) custom_music_url", utils.ErrValidationFailed)
		}
		return customURL, nil
	}
	if g.musicBase == "" {
		return selector, nil
	}
	return g.musicBase + "/" + url.PathEscape(selector) + ".mp3", nil
}
