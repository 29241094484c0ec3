package models

// UsageRow is the per-user message count for one day window.
type UsageRow struct {
	UserID   int64 `json:"user_id" db:"user_id"`
	Messages int64 `json:"messages" db:"messages"`
}

// UsageSummary aggregates today's message traffic for the admin dashboard.
type UsageSummary struct {
	ActiveUsers    int     `json:"active_users"`
	TotalMessages  int64   `json:"total_messages"`
	MeanPerUser    float64 `json:"mean_per_user"`
	MedianPerUser  float64 `json:"median_per_user"`
	MaxPerUser     float64 `json:"max_per_user"`
	GeneratedAtISO string  `json:"generated_at"`
}
