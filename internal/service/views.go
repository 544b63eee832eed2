package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/logger"
)

type ViewStore interface {
	UpsertView(ctx context.Context, userID, productID int64, durationSeconds int) (*domain.ProductView, error)
	ListRecentlyViewed(ctx context.Context, userID int64, limit int) ([]domain.ProductView, error)
	ListMostViewed(ctx context.Context, userID int64, limit int) ([]domain.ProductView, error)
	ViewStats(ctx context.Context, userID int64) (domain.ViewStats, error)
	ExistsView(ctx context.Context, userID, productID int64) (bool, error)
	SimilarViewedProducts(ctx context.Context, userID, productID int64, limit int) ([]int64, error)
	DeleteViewsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
}

type Catalog interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	ProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	PopularProducts(ctx context.Context, limit int) ([]domain.Product, error)
}

// ViewNotifier is the side-channel to the external recommender. Delivery is
// at most once; a failed notification never affects the stored record.
type ViewNotifier interface {
	NotifyView(ctx context.Context, userID, productID int64, durationSeconds int) error
}

type CacheInvalidator interface {
	ClearUserCache(ctx context.Context, userID int64) error
}

// ViewService ingests product-view events and answers view-history reads.
// Tracking is fire-and-forget: the request path dispatches a detached
// goroutine and never observes its outcome.
type ViewService struct {
	store        ViewStore
	catalog      Catalog
	notifier     ViewNotifier
	cache        CacheInvalidator
	log          *logger.Logger
	trackTimeout time.Duration

	wg sync.WaitGroup
}

func NewViewService(store ViewStore, catalog Catalog, notifier ViewNotifier, cache CacheInvalidator, trackTimeout time.Duration, log *logger.Logger) *ViewService {
	return &ViewService{
		store:        store,
		catalog:      catalog,
		notifier:     notifier,
		cache:        cache,
		log:          log.Named("views"),
		trackTimeout: trackTimeout,
	}
}

// TrackView records a view without duration information.
func (s *ViewService) TrackView(userID, productID int64) {
	s.dispatch(userID, productID, 0)
}

// TrackViewWithDuration records a view plus the seconds the user spent on it.
func (s *ViewService) TrackViewWithDuration(userID, productID int64, durationSeconds int) {
	s.dispatch(userID, productID, durationSeconds)
}

func (s *ViewService) dispatch(userID, productID int64, durationSeconds int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.trackTimeout)
		defer cancel()
		s.track(ctx, userID, productID, durationSeconds)
	}()
}

// Wait blocks until all in-flight tracking goroutines finish. Used on
// shutdown and in tests.
func (s *ViewService) Wait() {
	s.wg.Wait()
}

func (s *ViewService) track(ctx context.Context, userID, productID int64, durationSeconds int) {
	if ok, err := s.store.UserExists(ctx, userID); err != nil || !ok {
		s.log.Warnw("skipping view for unknown user",
			"user_id", userID, "product_id", productID, "error", err)
		return
	}
	if ok, err := s.store.ProductExists(ctx, productID); err != nil || !ok {
		s.log.Warnw("skipping view for unknown product",
			"user_id", userID, "product_id", productID, "error", err)
		return
	}

	view, err := s.store.UpsertView(ctx, userID, productID, durationSeconds)
	if err != nil {
		s.log.Warnw("track view failed",
			"user_id", userID, "product_id", productID, "error", err)
		return
	}
	s.log.Debugw("tracked product view",
		"user_id", userID, "product_id", productID, "view_count", view.ViewCount)

	if err := s.cache.ClearUserCache(ctx, userID); err != nil {
		s.log.Warnw("cache invalidation failed", "user_id", userID, "error", err)
	}

	if err := s.notifier.NotifyView(ctx, userID, productID, durationSeconds); err != nil {
		s.log.Warnw("recommender view notification failed",
			"user_id", userID, "product_id", productID, "error", err)
	}
}

// RecentlyViewed returns the products a user looked at most recently. Any
// failure yields an empty list, never an error.
func (s *ViewService) RecentlyViewed(ctx context.Context, userID int64, limit int) []domain.Product {
	views, err := s.store.ListRecentlyViewed(ctx, userID, limit)
	if err != nil {
		s.log.Errorw("list recently viewed failed", "user_id", userID, "error", err)
		return nil
	}
	return s.resolveProducts(ctx, views)
}

// MostViewed returns the products a user viewed most often.
func (s *ViewService) MostViewed(ctx context.Context, userID int64, limit int) []domain.Product {
	views, err := s.store.ListMostViewed(ctx, userID, limit)
	if err != nil {
		s.log.Errorw("list most viewed failed", "user_id", userID, "error", err)
		return nil
	}
	return s.resolveProducts(ctx, views)
}

// Stats returns aggregate view counters for a user; zero stats on failure.
func (s *ViewService) Stats(ctx context.Context, userID int64) domain.ViewStats {
	stats, err := s.store.ViewStats(ctx, userID)
	if err != nil {
		s.log.Errorw("view stats failed", "user_id", userID, "error", err)
		return domain.ViewStats{}
	}
	return stats
}

func (s *ViewService) HasViewed(ctx context.Context, userID, productID int64) bool {
	exists, err := s.store.ExistsView(ctx, userID, productID)
	if err != nil {
		s.log.Errorw("check viewed failed",
			"user_id", userID, "product_id", productID, "error", err)
		return false
	}
	return exists
}

// SimilarProducts returns product ids co-viewed by other users of the given
// product; empty on failure.
func (s *ViewService) SimilarProducts(ctx context.Context, userID, productID int64, limit int) []int64 {
	ids, err := s.store.SimilarViewedProducts(ctx, userID, productID, limit)
	if err != nil {
		s.log.Errorw("similar viewed products failed",
			"user_id", userID, "product_id", productID, "error", err)
		return nil
	}
	return ids
}

// CleanupOldViews deletes views last refreshed before daysToKeep days ago
// and returns how many rows were removed.
func (s *ViewService) CleanupOldViews(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	deleted, err := s.store.DeleteViewsBefore(ctx, cutoff)
	if err != nil {
		s.log.Errorw("cleanup old views failed", "days_to_keep", daysToKeep, "error", err)
		return 0, err
	}
	s.log.Infow("cleaned up old product views", "deleted", deleted, "days_to_keep", daysToKeep)
	return deleted, nil
}

// RunRetentionSweep loops until the context is canceled, deleting stale
// views on every tick. Safe to run concurrently with tracking: the delete is
// a coarse idempotent bulk operation.
func (s *ViewService) RunRetentionSweep(ctx context.Context, interval time.Duration, daysToKeep int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CleanupOldViews(ctx, daysToKeep); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Errorw("retention sweep iteration failed", "error", err)
			}
		}
	}
}

func (s *ViewService) resolveProducts(ctx context.Context, views []domain.ProductView) []domain.Product {
	if len(views) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ProductID)
	}
	products, err := s.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		s.log.Errorw("resolve viewed products failed", "error", err)
		return nil
	}

	out := make([]domain.Product, 0, len(views))
	for _, v := range views {
		if p, ok := products[v.ProductID]; ok {
			out = append(out, *p)
		}
	}
	return out
}
