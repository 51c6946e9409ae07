package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(err error) (*httptest.ResponseRecorder, APIResponse) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("trace_id", "trace-1")
	HandleServiceError(c, err)

	var body APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fmt.Errorf("%w: bad body", ErrValidationFailed), http.StatusBadRequest, "validation_failed"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"self demotion", ErrSelfDemotionBlocked, http.StatusForbidden, "self_demotion_blocked"},
		{"plan not eligible", &QuotaDeniedError{Reason: DenyPlanNotEligible, Plan: "free", Tier: "medium"}, http.StatusForbidden, "plan_not_eligible"},
		{"insufficient units", &QuotaDeniedError{Reason: DenyInsufficientUnits, Plan: "free", Used: 3, Limit: 3, Cost: 1}, http.StatusForbidden, "insufficient_units"},
		{"upstream unavailable", &DispatchError{Kind: ErrUpstreamUnavailable, StatusCode: 503}, http.StatusBadGateway, "upstream_unavailable"},
		{"contract violation", &DispatchError{Kind: ErrUpstreamContractViolation, StatusCode: 200}, http.StatusBadGateway, "upstream_contract_violation"},
		{"settlement conflict", fmt.Errorf("%w: lost race", ErrSettlementConflict), http.StatusInternalServerError, "settlement_conflict"},
		{"not found", ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
		{"database", ErrDatabaseError, http.StatusInternalServerError, "internal_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serve(tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.code, body.Error)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestHandleServiceError_QuotaDetails(t *testing.T) {
	_, body := serve(&QuotaDeniedError{Reason: DenyInsufficientUnits, Plan: "free", Used: 3, Limit: 3, Cost: 1})

	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "free", data["plan"])
	assert.EqualValues(t, 3, data["units_used"])
	assert.EqualValues(t, 1, data["unit_cost"])
}

func TestRespondAccepted(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondAccepted(c, gin.H{"ok": true}, "queued")

	assert.Equal(t, http.StatusAccepted, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "queued", body.Message)
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &QuotaDeniedError{Reason: DenyInsufficientUnits}
	assert.ErrorIs(t, err, ErrInsufficientUnits)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.True(t, IsQuotaDenied(fmt.Errorf("wrapped: %w", err)))

	err = &QuotaDeniedError{Reason: DenyPlanNotEligible}
	assert.ErrorIs(t, err, ErrPlanNotEligible)
	assert.NotErrorIs(t, err, ErrInsufficientUnits)

	cause := errors.New("dial tcp: refused")
	err = &DispatchError{Kind: ErrUpstreamUnavailable, Err: cause}
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
}
