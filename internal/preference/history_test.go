package preference

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

type fakePurchases struct {
	lines []domain.PurchaseLine
}

func (f *fakePurchases) PaidPurchaseLines(ctx context.Context, userID int64) ([]domain.PurchaseLine, error) {
	return f.lines, nil
}

func TestPurchaseHistoryProviderDeterministic(t *testing.T) {
	when := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	purchases := &fakePurchases{lines: []domain.PurchaseLine{
		{ProductID: 5, Quantity: 2, LineTotal: 300, PurchasedAt: when},
		{ProductID: 8, Quantity: 1, LineTotal: 120, PurchasedAt: when.AddDate(0, 0, -3)},
	}}
	provider := NewPurchaseHistoryProvider(purchases)

	first, err := provider.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	second, err := provider.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("expected synthetic history to be deterministic across calls")
	}

	if len(first) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(first))
	}
	if first[0].ViewCount != 2 || first[0].TotalDuration != 120 {
		t.Errorf("expected quantity-derived counters (2 views, 120s), got %+v", first[0])
	}
	if !first[0].FirstViewedAt.Equal(when) || !first[0].LastViewedAt.Equal(when) {
		t.Errorf("expected purchase-time stamps, got %+v", first[0])
	}
}

func TestPurchaseHistoryProviderMergesRepeatPurchases(t *testing.T) {
	early := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 0, 10)
	purchases := &fakePurchases{lines: []domain.PurchaseLine{
		{ProductID: 5, Quantity: 1, LineTotal: 100, PurchasedAt: late},
		{ProductID: 5, Quantity: 1, LineTotal: 100, PurchasedAt: early},
	}}

	entries, err := NewPurchaseHistoryProvider(purchases).History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected repeat purchases merged into one entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ViewCount != 2 {
		t.Errorf("expected merged view count 2, got %d", e.ViewCount)
	}
	if !e.FirstViewedAt.Equal(early) || !e.LastViewedAt.Equal(late) {
		t.Errorf("expected first/last spanning both purchases, got %+v", e)
	}
}

func TestFallbackHistoryProviderPrefersPrimary(t *testing.T) {
	now := time.Now()
	real := []domain.ViewHistoryEntry{{ProductID: 1, ViewCount: 3, LastViewedAt: now, FirstViewedAt: now}}
	provider := NewFallbackHistoryProvider(
		&fakeHistory{entries: real},
		&fakeHistory{entries: []domain.ViewHistoryEntry{{ProductID: 99}}},
	)

	entries, err := provider.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ProductID != 1 {
		t.Errorf("expected primary history to win, got %v", entries)
	}
}

func TestFallbackHistoryProviderFallsThroughWhenEmpty(t *testing.T) {
	provider := NewFallbackHistoryProvider(
		&fakeHistory{},
		&fakeHistory{entries: []domain.ViewHistoryEntry{{ProductID: 42, ViewCount: 1}}},
	)

	entries, err := provider.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ProductID != 42 {
		t.Errorf("expected secondary history when primary is empty, got %v", entries)
	}
}
