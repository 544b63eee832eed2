package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/logger"
	"github.com/artemisia-corp/preference-service/internal/preference"
)

const (
	defaultLimit = 10
	maxLimit     = 50

	// Purchase weighting: quantity x line total x this factor keeps typical
	// order values in the same range as view contributions.
	purchaseWeightFactor = 0.0001

	trainConcurrency = 10
)

type RecommenderClient interface {
	Recommendations(ctx context.Context, userID int64, topN int) ([]int64, error)
	SimilarUsers(ctx context.Context, userID int64, limit int) ([]int64, error)
	Train(ctx context.Context, payload any) (string, error)
}

type RecommendationCache interface {
	Get(ctx context.Context, userID int64, limit int) ([]domain.Product, bool, error)
	Set(ctx context.Context, userID int64, limit int, products []domain.Product) error
}

type UserStore interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
}

type PurchaseStore interface {
	PaidPurchaseLines(ctx context.Context, userID int64) ([]domain.PurchaseLine, error)
	CountPaidOrders(ctx context.Context, userID int64) (int64, error)
}

type PreferenceStore interface {
	SavePreference(ctx context.Context, userID int64, vector preference.Vector) error
}

type ViewStatsReader interface {
	ViewStats(ctx context.Context, userID int64) (domain.ViewStats, error)
}

// RecommendationService blends purchase and view signals into a per-user
// preference vector, keeps it persisted for the external recommender, and
// serves ranked products with a popularity fallback when the recommender
// cannot.
type RecommendationService struct {
	users     UserStore
	catalog   Catalog
	purchases PurchaseStore
	prefs     PreferenceStore
	viewStats ViewStatsReader
	cache     RecommendationCache
	client    RecommenderClient
	calc      *preference.Calculator
	log       *logger.Logger
}

func NewRecommendationService(
	users UserStore,
	catalog Catalog,
	purchases PurchaseStore,
	prefs PreferenceStore,
	viewStats ViewStatsReader,
	cache RecommendationCache,
	client RecommenderClient,
	calc *preference.Calculator,
	log *logger.Logger,
) *RecommendationService {
	return &RecommendationService{
		users:     users,
		catalog:   catalog,
		purchases: purchases,
		prefs:     prefs,
		viewStats: viewStats,
		cache:     cache,
		client:    client,
		calc:      calc,
		log:       log.Named("recommendations"),
	}
}

// GetRecommendations returns ranked products for a user. The recommender
// being down, returning garbage or knowing nothing about the user all
// degrade to the popularity list; only an unknown user or a failing
// fallback query surface as errors.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID int64, limit int) (*domain.RecommendationResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	cached, found, err := s.cache.Get(ctx, userID, limit)
	if err != nil {
		s.log.Warnw("cache get failed", "user_id", userID, "error", err)
	}
	if found {
		return &domain.RecommendationResult{Products: cached, CacheHit: true}, nil
	}

	// Refresh the stored vector off the request path; the recommender picks
	// it up on its next training cycle.
	go func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.UpdateUserPreferences(refreshCtx, userID)
	}()

	products, fallback := s.rankedProducts(ctx, userID, limit)
	if fallback {
		popular, err := s.catalog.PopularProducts(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("popularity fallback for user %d: %w", userID, err)
		}
		return &domain.RecommendationResult{Products: popular, Fallback: true}, nil
	}

	if err := s.cache.Set(ctx, userID, limit, products); err != nil {
		s.log.Warnw("cache set failed", "user_id", userID, "error", err)
	}
	return &domain.RecommendationResult{Products: products}, nil
}

// rankedProducts asks the recommender for ids and resolves them against the
// catalog, preserving rank order and silently skipping ids that no longer
// resolve. The second return reports whether the popularity fallback is
// needed.
func (s *RecommendationService) rankedProducts(ctx context.Context, userID int64, limit int) ([]domain.Product, bool) {
	ids, err := s.client.Recommendations(ctx, userID, limit)
	if err != nil {
		s.log.Warnw("recommender call failed, using fallback", "user_id", userID, "error", err)
		return nil, true
	}
	if len(ids) == 0 {
		return nil, true
	}

	resolved, err := s.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		s.log.Errorw("resolve recommended products failed, using fallback",
			"user_id", userID, "error", err)
		return nil, true
	}

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := resolved[id]; ok {
			products = append(products, *p)
		}
	}
	if len(products) == 0 {
		return nil, true
	}
	return products, false
}

// BuildUserVector computes the full preference vector: initialized shape,
// purchase-based seed, view-based blend, then divide-by-max normalization.
func (s *RecommendationService) BuildUserVector(ctx context.Context, userID int64) preference.Vector {
	vector := preference.NewFullVector()
	s.addPurchaseBasedPreferences(ctx, userID, vector)
	s.calc.AddViewBasedPreferences(ctx, userID, vector)
	vector.Normalize()
	return vector
}

func (s *RecommendationService) addPurchaseBasedPreferences(ctx context.Context, userID int64, vector preference.Vector) {
	lines, err := s.purchases.PaidPurchaseLines(ctx, userID)
	if err != nil {
		s.log.Errorw("fetch purchase lines failed, skipping purchase contribution",
			"user_id", userID, "error", err)
		return
	}
	if len(lines) == 0 {
		return
	}

	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	products, err := s.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		s.log.Errorw("fetch purchased products failed, skipping purchase contribution",
			"user_id", userID, "error", err)
		return
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		weight := float64(line.Quantity) * line.LineTotal * purchaseWeightFactor
		for _, c := range product.Categories {
			vector.Add(preference.CategoryKey(c), weight)
		}
		for _, t := range product.Techniques {
			vector.Add(preference.TechniqueKey(t), weight)
		}
	}
}

// UpdateUserPreferences rebuilds and persists the user's vector. Failures
// are logged and swallowed; preference refresh must never fail the request
// that triggered it.
func (s *RecommendationService) UpdateUserPreferences(ctx context.Context, userID int64) {
	vector := s.BuildUserVector(ctx, userID)
	if err := s.prefs.SavePreference(ctx, userID, vector); err != nil {
		s.log.Errorw("persist preference vector failed", "user_id", userID, "error", err)
		return
	}
	s.log.Infow("updated preference vector", "user_id", userID)
}

// FindSimilarUsers returns ids of users with similar taste; empty on any
// recommender failure.
func (s *RecommendationService) FindSimilarUsers(ctx context.Context, userID int64, limit int) []int64 {
	ids, err := s.client.SimilarUsers(ctx, userID, limit)
	if err != nil {
		s.log.Warnw("similar users call failed", "user_id", userID, "error", err)
		return nil
	}
	return ids
}

type trainingUser struct {
	UserID        int64             `json:"user_id"`
	Vector        preference.Vector `json:"vector"`
	PurchaseCount int64             `json:"purchase_count"`
	ViewStats     domain.ViewStats  `json:"view_statistics"`
}

// TrainModel collects every user's vector plus engagement counters and posts
// the batch to the recommender as a training trigger.
func (s *RecommendationService) TrainModel(ctx context.Context) error {
	userIDs, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users for training: %w", err)
	}

	users := make([]trainingUser, len(userIDs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, trainConcurrency)

	for i, userID := range userIDs {
		wg.Add(1)
		go func(idx int, uid int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			users[idx] = s.collectTrainingUser(ctx, uid)
		}(i, userID)
	}
	wg.Wait()

	resp, err := s.client.Train(ctx, map[string]any{"users": users})
	if err != nil {
		return fmt.Errorf("send training data: %w", err)
	}
	s.log.Infow("sent training data", "users", len(users), "response", resp)
	return nil
}

func (s *RecommendationService) collectTrainingUser(ctx context.Context, userID int64) trainingUser {
	tu := trainingUser{
		UserID: userID,
		Vector: s.BuildUserVector(ctx, userID),
	}

	if count, err := s.purchases.CountPaidOrders(ctx, userID); err == nil {
		tu.PurchaseCount = count
	} else {
		s.log.Warnw("count paid orders failed", "user_id", userID, "error", err)
	}

	if stats, err := s.viewStats.ViewStats(ctx, userID); err == nil {
		tu.ViewStats = stats
	} else {
		s.log.Warnw("view stats failed", "user_id", userID, "error", err)
	}
	return tu
}
