package utils

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrValidationFailed  = errors.New("validation failed")
	ErrPlanNotEligible   = errors.New("plan not eligible for requested length tier")
	ErrInsufficientUnits = errors.New("insufficient units remaining")
	// ErrQuotaExceeded is what a failed ledger debit reports.
	ErrQuotaExceeded             = ErrInsufficientUnits
	ErrUpstreamUnavailable       = errors.New("render backend unavailable")
	ErrUpstreamContractViolation = errors.New("render backend returned no usable artifact")
	ErrSettlementConflict        = errors.New("settlement conflict")
	ErrSelfDemotionBlocked       = errors.New("admins cannot remove their own admin flag")
	ErrAccountNotFound           = errors.New("account not found")
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrUnknownPlan               = errors.New("unknown plan")
	ErrInvalidPage               = errors.New("invalid page parameter")
	ErrInvalidPageSize           = errors.New("invalid page size parameter")
	ErrDatabaseError             = errors.New("database error")
)

// DenyReason names why the quota authorizer refused a request.
type DenyReason string

const (
	DenyPlanNotEligible   DenyReason = "plan_not_eligible"
	DenyInsufficientUnits DenyReason = "insufficient_units"
)

// QuotaDeniedError is returned when a request is refused before dispatch.
// Limit is -1 for unlimited plans.
type QuotaDeniedError struct {
	Reason DenyReason
	Plan   string
	Tier   string
	Used   int64
	Limit  int64
	Cost   int64
}

func (e *QuotaDeniedError) Error() string {
	if e.Reason == DenyPlanNotEligible {
		return fmt.Sprintf("plan %s cannot request %s videos", e.Plan, e.Tier)
	}
	return fmt.Sprintf("plan %s has %d of %d units used, request costs %d", e.Plan, e.Used, e.Limit, e.Cost)
}

func (e *QuotaDeniedError) Unwrap() error {
	if e.Reason == DenyPlanNotEligible {
		return ErrPlanNotEligible
	}
	return ErrInsufficientUnits
}

// DispatchError wraps a Render Backend failure. StatusCode is 0 when no
// response was received.
type DispatchError struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *DispatchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%v (status %d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v (status %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *DispatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsQuotaDenied reports whether err carries a quota refusal.
func IsQuotaDenied(err error) bool {
	var qe *QuotaDeniedError
	return errors.As(err, &qe)
}
