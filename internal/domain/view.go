package domain

import "time"

// ProductView is the persisted view record for one (user, product) pair.
// There is at most one row per pair; repeated views increment the counters.
type ProductView struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	ProductID         int64     `json:"product_id"`
	ViewCount         int       `json:"view_count"`
	TotalViewDuration int       `json:"total_view_duration"`
	FirstViewedAt     time.Time `json:"first_viewed_at"`
	LastViewedAt      time.Time `json:"last_viewed_at"`
}

// ViewHistoryEntry is the raw tuple the weight calculator consumes. Real
// entries come straight from product_views; synthetic entries are derived
// from purchase history for cold-start users.
type ViewHistoryEntry struct {
	ProductID     int64
	ViewCount     int
	TotalDuration int
	LastViewedAt  time.Time
	FirstViewedAt time.Time
}

type ViewStats struct {
	ViewedProducts    int64 `json:"viewed_products"`
	TotalViewCount    int64 `json:"total_view_count"`
	TotalViewDuration int64 `json:"total_view_duration"`
}
