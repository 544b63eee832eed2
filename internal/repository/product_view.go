package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

// UpsertView records one view of a product by a user. The first view
// creates the row with count 1; subsequent views increment the count, add
// any supplied duration and refresh last_viewed_at. The upsert is a single
// atomic statement, so concurrent views of the same pair cannot lose the row
// (at worst they serialize on it).
func (r *Repository) UpsertView(ctx context.Context, userID, productID int64, durationSeconds int) (*domain.ProductView, error) {
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	view := &domain.ProductView{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO product_views
			(user_id, product_id, view_count, total_view_duration, first_viewed_at, last_viewed_at)
		 VALUES ($1, $2, 1, $3, now(), now())
		 ON CONFLICT (user_id, product_id) DO UPDATE SET
			view_count = product_views.view_count + 1,
			total_view_duration = product_views.total_view_duration + EXCLUDED.total_view_duration,
			last_viewed_at = now()
		 RETURNING id, user_id, product_id, view_count, total_view_duration, first_viewed_at, last_viewed_at`,
		userID, productID, durationSeconds,
	).Scan(&view.ID, &view.UserID, &view.ProductID, &view.ViewCount,
		&view.TotalViewDuration, &view.FirstViewedAt, &view.LastViewedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert view user=%d product=%d: %w", userID, productID, err)
	}
	return view, nil
}

func (r *Repository) FindView(ctx context.Context, userID, productID int64) (*domain.ProductView, error) {
	view := &domain.ProductView{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_id, view_count, total_view_duration, first_viewed_at, last_viewed_at
		 FROM product_views WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&view.ID, &view.UserID, &view.ProductID, &view.ViewCount,
		&view.TotalViewDuration, &view.FirstViewedAt, &view.LastViewedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query view user=%d product=%d: %w", userID, productID, err)
	}
	return view, nil
}

// ListRecentlyViewed returns a user's views ordered by last_viewed_at desc.
func (r *Repository) ListRecentlyViewed(ctx context.Context, userID int64, limit int) ([]domain.ProductView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, product_id, view_count, total_view_duration, first_viewed_at, last_viewed_at
		 FROM product_views
		 WHERE user_id = $1
		 ORDER BY last_viewed_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent views for user %d: %w", userID, err)
	}
	return scanViews(rows)
}

// ListMostViewed returns a user's views ordered by view_count desc.
func (r *Repository) ListMostViewed(ctx context.Context, userID int64, limit int) ([]domain.ProductView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, product_id, view_count, total_view_duration, first_viewed_at, last_viewed_at
		 FROM product_views
		 WHERE user_id = $1
		 ORDER BY view_count DESC, last_viewed_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top views for user %d: %w", userID, err)
	}
	return scanViews(rows)
}

// RecentViewHistory returns the raw scoring tuples for views refreshed since
// the given time, most-viewed first.
func (r *Repository) RecentViewHistory(ctx context.Context, userID int64, since time.Time, limit int) ([]domain.ViewHistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, view_count, total_view_duration, last_viewed_at, first_viewed_at
		 FROM product_views
		 WHERE user_id = $1 AND last_viewed_at >= $2
		 ORDER BY view_count DESC, last_viewed_at DESC
		 LIMIT $3`,
		userID, since, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query view history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []domain.ViewHistoryEntry
	for rows.Next() {
		var e domain.ViewHistoryEntry
		if err := rows.Scan(&e.ProductID, &e.ViewCount, &e.TotalDuration, &e.LastViewedAt, &e.FirstViewedAt); err != nil {
			return nil, fmt.Errorf("scan view history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view history: %w", err)
	}
	return entries, nil
}

func (r *Repository) CountViewsByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM product_views WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count views for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *Repository) SumViewDurationByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_view_duration), 0) FROM product_views WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum view duration for user %d: %w", userID, err)
	}
	return total, nil
}

func (r *Repository) ViewStats(ctx context.Context, userID int64) (domain.ViewStats, error) {
	var stats domain.ViewStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(view_count), 0), COALESCE(SUM(total_view_duration), 0)
		 FROM product_views WHERE user_id = $1`,
		userID,
	).Scan(&stats.ViewedProducts, &stats.TotalViewCount, &stats.TotalViewDuration)
	if err != nil {
		return domain.ViewStats{}, fmt.Errorf("view stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func (r *Repository) ExistsView(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM product_views WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check view user=%d product=%d: %w", userID, productID, err)
	}
	return exists, nil
}

// SimilarViewedProducts returns products that users who viewed the given
// product also viewed, heaviest co-viewers first.
func (r *Repository) SimilarViewedProducts(ctx context.Context, userID, productID int64, limit int) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pv2.product_id
		 FROM product_views pv1
		 JOIN product_views pv2
			ON pv1.user_id = pv2.user_id AND pv2.product_id <> pv1.product_id
		 WHERE pv1.product_id = $1 AND pv1.user_id <> $2
		 GROUP BY pv2.product_id
		 ORDER BY SUM(pv2.view_count) DESC
		 LIMIT $3`,
		productID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query similar viewed products for product %d: %w", productID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan similar product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate similar products: %w", err)
	}
	return ids, nil
}

// DeleteViewsBefore removes every view whose last_viewed_at is older than
// the cutoff. Idempotent bulk delete, safe to run alongside tracking.
func (r *Repository) DeleteViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM product_views WHERE last_viewed_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete views before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

func scanViews(rows pgx.Rows) ([]domain.ProductView, error) {
	defer rows.Close()

	var views []domain.ProductView
	for rows.Next() {
		var v domain.ProductView
		err := rows.Scan(&v.ID, &v.UserID, &v.ProductID, &v.ViewCount,
			&v.TotalViewDuration, &v.FirstViewedAt, &v.LastViewedAt)
		if err != nil {
			return nil, fmt.Errorf("scan product view: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product views: %w", err)
	}
	return views, nil
}
