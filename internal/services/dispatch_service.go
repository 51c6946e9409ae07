package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"reelcraft/internal/models/db_models"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

const maxRenderResponseBytes = 1 << 20

// DispatchRequest is the normalized render job. StoryText must already be
// sanitized.
type DispatchRequest struct {
	StoryText string
	MusicURL  string
	VoiceID   string
	StoryType string
	Vertical  bool
	Pro       bool
	Tier      db_models.LengthTier
	TraceID   string
}

type ArtifactRefs struct {
	VideoURL string `json:"video_url"`
	AudioURL string `json:"audio_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	JobID    string `json:"job_id,omitempty"`
}

type renderPayload struct {
	Story       string `json:"story"`
	MusicURL    string `json:"music_url"`
	VoiceID     string `json:"voice_id"`
	StoryType   string `json:"story_type"`
	Vertical    bool   `json:"vertical"`
	Pro         bool   `json:"pro"`
	VideoLength string `json:"video_length,omitempty"`
}

type DispatchServiceInterface interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*ArtifactRefs, error)
}

type DispatchOption func(*DispatchService)

func WithHTTPClient(client *http.Client) DispatchOption {
	return func(d *DispatchService) {
		d.client = client
	}
}

func WithBearerToken(token string) DispatchOption {
	return func(d *DispatchService) {
		d.token = token
	}
}

// DispatchService posts render jobs to the Render Backend and waits only for
// the acknowledgement. Requests are never retried: the backend is not
// idempotent.
type DispatchService struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   *http.Client
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func NewDispatchService(endpoint string, timeout time.Duration, m *metrics.Metrics, logger *logrus.Logger, opts ...DispatchOption) DispatchServiceInterface {
	d := &DispatchService{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
		metrics:  m,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DispatchService) Dispatch(ctx context.Context, req DispatchRequest) (*ArtifactRefs, error) {
	started := time.Now()
	refs, err := d.dispatch(ctx, req)

	result := "accepted"
	switch {
	case errors.Is(err, utils.ErrUpstreamContractViolation):
		result = "contract_violation"
	case err != nil:
		result = "unavailable"
	}
	d.metrics.ObserveDispatch(result, started)

	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"trace_id": req.TraceID,
			"result":   result,
			"elapsed":  time.Since(started).String(),
		}).WithError(err).Warn("render dispatch failed")
	}
	return refs, err
}

func (d *DispatchService) dispatch(ctx context.Context, req DispatchRequest) (*ArtifactRefs, error) {
	payload := renderPayload{
		Story:     req.StoryText,
		MusicURL:  req.MusicURL,
		VoiceID:   req.VoiceID,
		StoryType: req.StoryType,
		Vertical:  req.Vertical,
		Pro:       req.Pro,
	}
	if req.Tier != "" && req.Tier != db_models.TierDefault {
		payload.VideoLength = string(req.Tier)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal render payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.TraceID != "" {
		httpReq.Header.Set("X-Request-ID", req.TraceID)
	}
	if d.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, &utils.DispatchError{Kind: utils.ErrUpstreamUnavailable, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRenderResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &utils.DispatchError{Kind: utils.ErrUpstreamUnavailable, StatusCode: resp.StatusCode}
	}
	if err != nil {
		return nil, &utils.DispatchError{Kind: utils.ErrUpstreamUnavailable, StatusCode: resp.StatusCode, Err: err}
	}

	var refs ArtifactRefs
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, &utils.DispatchError{Kind: utils.ErrUpstreamContractViolation, StatusCode: resp.StatusCode, Err: err}
	}
	if !usableURL(refs.VideoURL) {
		return nil, &utils.DispatchError{
			Kind:       utils.ErrUpstreamContractViolation,
			StatusCode: resp.StatusCode,
			Err:        errors.New("response has no usable video_url"),
		}
	}
	return &refs, nil
}

func usableURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
