package services

import (
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/models/response_models"
	"reelcraft/pkg/utils"
)

func ToSubscriptionResponse(sub *db_models.Subscription) response_models.SubscriptionResponse {
	return response_models.SubscriptionResponse{
		Plan:           string(sub.Plan),
		UnitsUsed:      sub.UnitsUsed,
		UnitsLimit:     sub.UnitsLimit,
		UnitsRemaining: sub.UnitsRemaining(),
		Unlimited:      sub.Unlimited(),
		CycleStart:     utils.FormatUnixRFC3339(sub.CycleStart),
		ResetAt:        utils.FormatUnixRFC3339(sub.ResetAt),
		PaymentStatus:  string(sub.PaymentStatus),
	}
}

func toHistoryItem(r *db_models.GenerationRecord) response_models.GenerationHistoryItem {
	return response_models.GenerationHistoryItem{
		ID:           r.ID.String(),
		StoryExcerpt: r.StoryExcerpt,
		VoiceID:      r.VoiceID,
		StoryType:    r.StoryType,
		Orientation:  r.Orientation,
		LengthTier:   string(r.LengthTier),
		UnitCost:     r.UnitCost,
		UnitsCharged: r.UnitsCharged,
		VideoURL:     r.VideoURL,
		SettledAt:    utils.FormatUnixRFC3339(r.SettledAt),
	}
}

func toAccountResponse(a *db_models.Account) *response_models.AccountResponse {
	return &response_models.AccountResponse{
		ID:      a.ID.String(),
		Email:   a.Email,
		Name:    a.Name,
		IsAdmin: a.IsAdmin,
	}
}

func pageOffset(page, pageSize int) (int, error) {
	if page < 1 {
		return 0, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return 0, utils.ErrInvalidPageSize
	}
	return (page - 1) * pageSize, nil
}
