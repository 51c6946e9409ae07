package response_models

type SubscriptionResponse struct {
	Plan           string `json:"plan"`
	UnitsUsed      int64  `json:"units_used"`
	UnitsLimit     int64  `json:"units_limit"`
	UnitsRemaining int64  `json:"units_remaining"`
	Unlimited      bool   `json:"unlimited"`
	CycleStart     string `json:"cycle_start"`
	ResetAt        string `json:"reset_at"`
	PaymentStatus  string `json:"payment_status"`
}

type PlanResponse struct {
	Code            string   `json:"code"`
	UnitsPerCycle   int64    `json:"units_per_cycle"`
	Unlimited       bool     `json:"unlimited"`
	CycleDays       int      `json:"cycle_days"`
	LengthTiers     []string `json:"length_tiers"`
	AutoRenewsCycle bool     `json:"auto_renews_cycle"`
}

type AccountOverviewResponse struct {
	AccountID    string                  `json:"account_id"`
	Subscription SubscriptionResponse    `json:"subscription"`
	Recent       []GenerationHistoryItem `json:"recent_generations"`
}
