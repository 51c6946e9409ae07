package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func TraceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, data, message)
}

// RespondAccepted is used when the work was handed to the Render Backend.
func RespondAccepted(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusAccepted, data, message)
}

func respond(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: TraceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: TraceID(c),
	})
}

func respondErrorCode(c *gin.Context, code int, errCode, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Error:   errCode,
		Message: message,
		TraceID: TraceID(c),
		Data:    data,
	})
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{ErrSettlementConflict, http.StatusInternalServerError, "settlement_conflict", "Video was produced but could not be recorded"},
	{ErrValidationFailed, http.StatusBadRequest, "validation_failed", ""},
	{ErrInvalidPage, http.StatusBadRequest, "validation_failed", "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "validation_failed", "Page size must be between 1 and 100"},
	{ErrUnknownPlan, http.StatusBadRequest, "validation_failed", "Unknown plan"},
	{ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "Authentication required"},
	{ErrSelfDemotionBlocked, http.StatusForbidden, "self_demotion_blocked", "Admins cannot remove their own admin flag"},
	{ErrForbidden, http.StatusForbidden, "forbidden", "Forbidden: insufficient permissions"},
	{ErrPlanNotEligible, http.StatusForbidden, "plan_not_eligible", "Your plan does not include this video length"},
	{ErrInsufficientUnits, http.StatusForbidden, "insufficient_units", "Not enough units left in this cycle"},
	{ErrAccountNotFound, http.StatusNotFound, "account_not_found", "Account not found"},
	{ErrSubscriptionNotFound, http.StatusNotFound, "subscription_not_found", "Subscription not found"},
	{ErrUpstreamContractViolation, http.StatusBadGateway, "upstream_contract_violation", "Render backend returned no video"},
	{ErrUpstreamUnavailable, http.StatusBadGateway, "upstream_unavailable", "Render backend unavailable"},
}

// HandleServiceError maps a service error to its HTTP response.
func HandleServiceError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		var data interface{}
		var qe *QuotaDeniedError
		if errors.As(err, &qe) {
			data = gin.H{"plan": qe.Plan, "units_used": qe.Used, "units_limit": qe.Limit, "unit_cost": qe.Cost}
		}
		if m.status >= http.StatusInternalServerError {
			logrus.WithFields(logrus.Fields{"trace_id": TraceID(c), "path": c.FullPath()}).WithError(err).Error("request failed")
		}
		respondErrorCode(c, m.status, m.code, message, data)
		return
	}

	logrus.WithFields(logrus.Fields{"trace_id": TraceID(c), "path": c.FullPath()}).WithError(err).Error("unhandled service error")
	respondErrorCode(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
}
