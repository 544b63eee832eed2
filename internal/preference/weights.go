package preference

import (
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

// Weighting factors for the four view signals. Each term is capped by its
// factor, so a raw weight is always in [0, 1].
const (
	frequencyFactor   = 0.4
	durationFactor    = 0.3
	recencyFactor     = 0.2
	consistencyCap    = 0.1
	recencyWindowDays = 30.0
)

// CalculateViewWeights turns one user's raw view history into per-product
// importance scores. The result is normalized by its maximum so the top
// product always scores exactly 1.0. Empty input yields an empty map.
func CalculateViewWeights(history []domain.ViewHistoryEntry) map[int64]float64 {
	weights := make(map[int64]float64, len(history))
	if len(history) == 0 {
		return weights
	}

	maxViewCount := 1
	maxTotalDuration := 1
	mostRecent := history[0].LastViewedAt
	for _, e := range history {
		if e.ViewCount > maxViewCount {
			maxViewCount = e.ViewCount
		}
		if e.TotalDuration > maxTotalDuration {
			maxTotalDuration = e.TotalDuration
		}
		if e.LastViewedAt.After(mostRecent) {
			mostRecent = e.LastViewedAt
		}
	}

	for _, e := range history {
		weights[e.ProductID] = singleViewWeight(e, maxViewCount, maxTotalDuration, mostRecent)
	}

	normalizeWeights(weights)
	return weights
}

func singleViewWeight(e domain.ViewHistoryEntry, maxViewCount, maxTotalDuration int, mostRecent time.Time) float64 {
	weight := 0.0

	// Factor 1: view frequency (40%).
	weight += float64(e.ViewCount) / float64(maxViewCount) * frequencyFactor

	// Factor 2: cumulative view duration (30%).
	weight += float64(e.TotalDuration) / float64(maxTotalDuration) * durationFactor

	// Factor 3: recency, linear decay over a 30-day window (20%).
	daysSince := daysBetween(e.LastViewedAt, mostRecent)
	decay := 1.0 - float64(daysSince)/recencyWindowDays
	if decay < 0 {
		decay = 0
	}
	weight += decay * recencyFactor

	// Factor 4: temporal consistency (10%). Only meaningful when the product
	// was viewed more than once across more than one day.
	period := daysBetween(e.FirstViewedAt, e.LastViewedAt)
	if period > 0 && e.ViewCount > 1 {
		viewsPerDay := float64(e.ViewCount) / float64(period)
		consistency := viewsPerDay * consistencyCap
		if consistency > consistencyCap {
			consistency = consistencyCap
		}
		weight += consistency
	}

	return weight
}

// daysBetween truncates toward zero, matching whole-day arithmetic: anything
// under 24h counts as zero days.
func daysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from).Hours() / 24)
}

func normalizeWeights(weights map[int64]float64) {
	max := 0.0
	for _, w := range weights {
		if w > max {
			max = w
		}
	}
	if max <= 0 {
		return
	}
	for id, w := range weights {
		weights[id] = w / max
	}
}
