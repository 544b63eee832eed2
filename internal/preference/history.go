package preference

import (
	"context"
	"fmt"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

// HistoryProvider supplies the raw view tuples the weight calculator works
// from. Implementations are selected by availability: real tracked views
// when they exist, a synthetic purchase-derived history otherwise.
type HistoryProvider interface {
	History(ctx context.Context, userID int64) ([]domain.ViewHistoryEntry, error)
}

type ViewHistoryReader interface {
	RecentViewHistory(ctx context.Context, userID int64, since time.Time, limit int) ([]domain.ViewHistoryEntry, error)
}

type PurchaseReader interface {
	PaidPurchaseLines(ctx context.Context, userID int64) ([]domain.PurchaseLine, error)
}

const (
	historyWindowDays = 30
	historyLimit      = 100
)

// StoreHistoryProvider reads real tracked views from the last 30 days,
// most-viewed first, capped at 100 products.
type StoreHistoryProvider struct {
	views ViewHistoryReader
}

func NewStoreHistoryProvider(views ViewHistoryReader) *StoreHistoryProvider {
	return &StoreHistoryProvider{views: views}
}

func (p *StoreHistoryProvider) History(ctx context.Context, userID int64) ([]domain.ViewHistoryEntry, error) {
	since := time.Now().AddDate(0, 0, -historyWindowDays)
	entries, err := p.views.RecentViewHistory(ctx, userID, since, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("read view history for user %d: %w", userID, err)
	}
	return entries, nil
}

// PurchaseHistoryProvider synthesizes view tuples from paid purchase lines
// for users with no tracked views. The synthesis is deterministic: a
// purchase of quantity n counts as n views of one minute each, stamped at
// the purchase time, so repeated preference computations agree.
type PurchaseHistoryProvider struct {
	purchases PurchaseReader
}

const syntheticSecondsPerView = 60

func NewPurchaseHistoryProvider(purchases PurchaseReader) *PurchaseHistoryProvider {
	return &PurchaseHistoryProvider{purchases: purchases}
}

func (p *PurchaseHistoryProvider) History(ctx context.Context, userID int64) ([]domain.ViewHistoryEntry, error) {
	lines, err := p.purchases.PaidPurchaseLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read purchase lines for user %d: %w", userID, err)
	}

	byProduct := make(map[int64]*domain.ViewHistoryEntry)
	order := make([]int64, 0, len(lines))
	for _, line := range lines {
		count := line.Quantity
		if count < 1 {
			count = 1
		}
		entry, ok := byProduct[line.ProductID]
		if !ok {
			entry = &domain.ViewHistoryEntry{
				ProductID:     line.ProductID,
				FirstViewedAt: line.PurchasedAt,
				LastViewedAt:  line.PurchasedAt,
			}
			byProduct[line.ProductID] = entry
			order = append(order, line.ProductID)
		}
		entry.ViewCount += count
		entry.TotalDuration += count * syntheticSecondsPerView
		if line.PurchasedAt.Before(entry.FirstViewedAt) {
			entry.FirstViewedAt = line.PurchasedAt
		}
		if line.PurchasedAt.After(entry.LastViewedAt) {
			entry.LastViewedAt = line.PurchasedAt
		}
	}

	entries := make([]domain.ViewHistoryEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byProduct[id])
	}
	return entries, nil
}

// FallbackHistoryProvider tries the primary provider and falls through to
// the secondary when the primary has nothing for the user.
type FallbackHistoryProvider struct {
	primary   HistoryProvider
	secondary HistoryProvider
}

func NewFallbackHistoryProvider(primary, secondary HistoryProvider) *FallbackHistoryProvider {
	return &FallbackHistoryProvider{primary: primary, secondary: secondary}
}

func (p *FallbackHistoryProvider) History(ctx context.Context, userID int64) ([]domain.ViewHistoryEntry, error) {
	entries, err := p.primary.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}
	return p.secondary.History(ctx, userID)
}
