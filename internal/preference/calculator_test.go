package preference

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/logger"
)

type fakeHistory struct {
	entries []domain.ViewHistoryEntry
	err     error
}

func (f *fakeHistory) History(ctx context.Context, userID int64) ([]domain.ViewHistoryEntry, error) {
	return f.entries, f.err
}

type fakeCatalog struct {
	products map[int64]*domain.Product
	err      error
}

func (f *fakeCatalog) ProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]*domain.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func testProduct(id int64, c domain.Category) *domain.Product {
	return &domain.Product{ID: id, Categories: []domain.Category{c}}
}

func TestAddViewBasedPreferencesEmptyHistory(t *testing.T) {
	calc := NewCalculator(&fakeHistory{}, &fakeCatalog{}, logger.NewNop())

	vector := NewFullVector()
	before := vector.Clone()
	calc.AddViewBasedPreferences(context.Background(), 1, vector)

	for key, want := range before {
		if vector[key] != want {
			t.Errorf("%s changed from %f to %f on empty history", key, want, vector[key])
		}
	}
}

func TestAddViewBasedPreferencesInfluenceCap(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{entries: []domain.ViewHistoryEntry{
		{ProductID: 1, ViewCount: 10, TotalDuration: 300, LastViewedAt: now, FirstViewedAt: now.AddDate(0, 0, -10)},
		{ProductID: 2, ViewCount: 2, TotalDuration: 60, LastViewedAt: now.AddDate(0, 0, -5), FirstViewedAt: now.AddDate(0, 0, -5)},
		{ProductID: 3, ViewCount: 1, TotalDuration: 30, LastViewedAt: now.AddDate(0, 0, -20), FirstViewedAt: now.AddDate(0, 0, -20)},
	}}
	catalog := &fakeCatalog{products: map[int64]*domain.Product{
		1: testProduct(1, domain.CategoryAbstract),
		2: testProduct(2, domain.CategoryRealist),
		3: testProduct(3, domain.CategoryLandscape),
	}}

	calc := NewCalculator(history, catalog, logger.NewNop())
	vector := Vector{}
	calc.AddViewBasedPreferences(context.Background(), 1, vector)

	// Each product has exactly one category, so the cat_ keys carry the full
	// adjusted weights: they must sum to the influence factor.
	total := vector["cat_Abstract"] + vector["cat_Realist"] + vector["cat_Landscape"]
	if math.Abs(total-ViewInfluenceFactor) > 1e-9 {
		t.Errorf("expected adjusted weights to sum to %f, got %f", ViewInfluenceFactor, total)
	}
	if vector["cat_Abstract"] <= vector["cat_Realist"] {
		t.Errorf("expected heavier-viewed product to dominate: %v", vector)
	}
}

func TestAddViewBasedPreferencesSkipsUnresolvedProducts(t *testing.T) {
	now := time.Now()
	history := &fakeHistory{entries: []domain.ViewHistoryEntry{
		{ProductID: 1, ViewCount: 5, TotalDuration: 100, LastViewedAt: now, FirstViewedAt: now},
		{ProductID: 99, ViewCount: 5, TotalDuration: 100, LastViewedAt: now, FirstViewedAt: now},
	}}
	catalog := &fakeCatalog{products: map[int64]*domain.Product{
		1: testProduct(1, domain.CategoryAbstract),
	}}

	calc := NewCalculator(history, catalog, logger.NewNop())
	vector := Vector{}
	calc.AddViewBasedPreferences(context.Background(), 1, vector)

	if vector["cat_Abstract"] == 0 {
		t.Error("expected resolved product to contribute")
	}
	// The missing product's share of the influence budget is simply not
	// spent; it is not redistributed.
	if math.Abs(vector["cat_Abstract"]-ViewInfluenceFactor/2) > 1e-9 {
		t.Errorf("expected half the influence budget, got %f", vector["cat_Abstract"])
	}
}

func TestAddViewBasedPreferencesHistoryErrorLeavesVectorUntouched(t *testing.T) {
	calc := NewCalculator(
		&fakeHistory{err: errors.New("store down")},
		&fakeCatalog{},
		logger.NewNop(),
	)

	vector := Vector{"cat_Abstract": 0.4}
	calc.AddViewBasedPreferences(context.Background(), 1, vector)

	if len(vector) != 1 || vector["cat_Abstract"] != 0.4 {
		t.Errorf("expected vector untouched on history error, got %v", vector)
	}
}

func TestAddViewBasedPreferencesCatalogErrorLeavesVectorUntouched(t *testing.T) {
	now := time.Now()
	calc := NewCalculator(
		&fakeHistory{entries: []domain.ViewHistoryEntry{
			{ProductID: 1, ViewCount: 1, TotalDuration: 10, LastViewedAt: now, FirstViewedAt: now},
		}},
		&fakeCatalog{err: errors.New("catalog down")},
		logger.NewNop(),
	)

	vector := Vector{}
	calc.AddViewBasedPreferences(context.Background(), 1, vector)

	if len(vector) != 0 {
		t.Errorf("expected no writes on catalog error, got %v", vector)
	}
}
