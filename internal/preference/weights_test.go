package preference

import (
	"math"
	"testing"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

func TestCalculateViewWeightsSingleEntry(t *testing.T) {
	now := time.Now()
	history := []domain.ViewHistoryEntry{
		{
			ProductID:     7,
			ViewCount:     10,
			TotalDuration: 300,
			LastViewedAt:  now,
			FirstViewedAt: now.AddDate(0, 0, -10),
		},
	}

	weights := CalculateViewWeights(history)

	if len(weights) != 1 {
		t.Fatalf("expected 1 weight, got %d", len(weights))
	}

	// Single-entry corpus: frequency 0.4, duration 0.3, recency 0.2
	// (daysSince=0), consistency min(10/10*0.1, 0.1)=0.1 -> raw 1.0 -> 1.0.
	if math.Abs(weights[7]-1.0) > 1e-9 {
		t.Errorf("expected weight 1.0 for product 7, got %f", weights[7])
	}
}

func TestCalculateViewWeightsBoundsAndNormalization(t *testing.T) {
	now := time.Now()
	history := []domain.ViewHistoryEntry{
		{ProductID: 1, ViewCount: 10, TotalDuration: 600, LastViewedAt: now, FirstViewedAt: now.AddDate(0, 0, -5)},
		{ProductID: 2, ViewCount: 3, TotalDuration: 120, LastViewedAt: now.AddDate(0, 0, -10), FirstViewedAt: now.AddDate(0, 0, -12)},
		{ProductID: 3, ViewCount: 1, TotalDuration: 10, LastViewedAt: now.AddDate(0, 0, -40), FirstViewedAt: now.AddDate(0, 0, -40)},
	}

	weights := CalculateViewWeights(history)

	max := 0.0
	for id, w := range weights {
		if w < 0 || w > 1 {
			t.Errorf("weight for product %d out of [0,1]: %f", id, w)
		}
		if w > max {
			max = w
		}
	}
	if math.Abs(max-1.0) > 1e-9 {
		t.Errorf("expected maximum weight exactly 1.0 after normalization, got %f", max)
	}
	if weights[1] <= weights[2] || weights[2] <= weights[3] {
		t.Errorf("expected weights ordered 1 > 2 > 3, got %v", weights)
	}
}

func TestCalculateViewWeightsEmptyHistory(t *testing.T) {
	weights := CalculateViewWeights(nil)
	if len(weights) != 0 {
		t.Errorf("expected empty result for empty history, got %v", weights)
	}
}

func TestCalculateViewWeightsRecencyDecay(t *testing.T) {
	now := time.Now()
	// Two otherwise identical entries 40 days apart: the stale one loses the
	// whole recency term but keeps frequency and duration.
	history := []domain.ViewHistoryEntry{
		{ProductID: 1, ViewCount: 5, TotalDuration: 100, LastViewedAt: now, FirstViewedAt: now},
		{ProductID: 2, ViewCount: 5, TotalDuration: 100, LastViewedAt: now.AddDate(0, 0, -40), FirstViewedAt: now.AddDate(0, 0, -40)},
	}

	weights := CalculateViewWeights(history)

	if math.Abs(weights[1]-1.0) > 1e-9 {
		t.Errorf("expected fresh entry to normalize to 1.0, got %f", weights[1])
	}
	// Raw weights: fresh 0.9, stale 0.7 -> 0.7/0.9 after normalization.
	if math.Abs(weights[2]-0.7/0.9) > 1e-9 {
		t.Errorf("expected stale entry at 0.7/0.9, got %f", weights[2])
	}
}

func TestConsistencyRequiresMultipleViewsOverDays(t *testing.T) {
	now := time.Now()

	sameDay := domain.ViewHistoryEntry{
		ProductID: 1, ViewCount: 5, TotalDuration: 100,
		LastViewedAt: now, FirstViewedAt: now,
	}
	spread := domain.ViewHistoryEntry{
		ProductID: 2, ViewCount: 5, TotalDuration: 100,
		LastViewedAt: now, FirstViewedAt: now.AddDate(0, 0, -5),
	}

	wSame := singleViewWeight(sameDay, 5, 100, now)
	wSpread := singleViewWeight(spread, 5, 100, now)

	if wSpread <= wSame {
		t.Errorf("expected consistency bonus for multi-day viewing: same-day %f, spread %f", wSame, wSpread)
	}
	if math.Abs(wSpread-wSame-0.1) > 1e-9 {
		t.Errorf("expected consistency bonus capped at 0.1, got %f", wSpread-wSame)
	}
}

func TestDaysBetweenTruncates(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	if d := daysBetween(base, base.Add(23*time.Hour)); d != 0 {
		t.Errorf("expected 23h to truncate to 0 days, got %d", d)
	}
	if d := daysBetween(base, base.Add(49*time.Hour)); d != 2 {
		t.Errorf("expected 49h to truncate to 2 days, got %d", d)
	}
}
