package seeds

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Setup populates an empty database with deterministic fixture data. The
// fixed seed keeps local environments and smoke tests reproducible.
func Setup(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	rng := rand.New(rand.NewSource(42))

	log.Infow("seeding: truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE user_preferences, order_lines, orders, product_views,
			product_techniques, product_categories, products, users
		RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Infow("seeding: users")
	if err := seedUsers(ctx, pool, 20); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Infow("seeding: products")
	if err := seedProducts(ctx, pool, rng, 50); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	log.Infow("seeding: product views")
	if err := seedViews(ctx, pool, rng, 200); err != nil {
		return fmt.Errorf("seed views: %w", err)
	}

	log.Infow("seeding: orders")
	if err := seedOrders(ctx, pool, rng, 40); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	log.Infow("seeding complete")
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, n int) error {
	rows := []string{}
	args := []any{}

	for i := 0; i < n; i++ {
		base := i * 2
		rows = append(rows, fmt.Sprintf("($%d, $%d)", base+1, base+2))
		args = append(args, fmt.Sprintf("user%02d", i+1), fmt.Sprintf("user%02d@example.com", i+1))
	}

	query := "INSERT INTO users (name, email) VALUES " + strings.Join(rows, ", ")
	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	adjectives := []string{"Silent", "Crimson", "Golden", "Fractured", "Luminous", "Veiled", "Quiet", "Burning"}
	subjects := []string{"Garden", "Harbor", "Dream", "Procession", "Horizon", "Window", "Night", "Pilgrimage"}
	categories := domain.AllCategories()
	techniques := domain.AllTechniques()

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s %s %d",
			adjectives[rng.Intn(len(adjectives))], subjects[rng.Intn(len(subjects))], i+1)

		// Roughly a third each: cheap, mid, expensive; a few unpriced.
		var price *float64
		if rng.Float64() > 0.1 {
			p := []float64{25, 75, 150, 350, 600, 1200}[rng.Intn(6)] + float64(rng.Intn(50))
			price = &p
		}
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(365))

		var productID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO products (name, price, available, created_at) VALUES ($1, $2, TRUE, $3) RETURNING id`,
			name, price, createdAt,
		).Scan(&productID)
		if err != nil {
			return err
		}

		for _, c := range pickCategories(rng, categories) {
			if _, err := pool.Exec(ctx,
				`INSERT INTO product_categories (product_id, category) VALUES ($1, $2)`,
				productID, c,
			); err != nil {
				return err
			}
		}
		for _, t := range pickTechniques(rng, techniques) {
			if _, err := pool.Exec(ctx,
				`INSERT INTO product_techniques (product_id, technique) VALUES ($1, $2)`,
				productID, t,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedViews(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	for _i := 0; _i < n; _i++ {
		userID := int64(rng.Intn(20) + 1)
		productID := int64(rng.Intn(50) + 1)
		viewCount := rng.Intn(10) + 1
		duration := (rng.Intn(270) + 30) * viewCount
		lastViewed := time.Now().AddDate(0, 0, -rng.Intn(28))
		firstViewed := lastViewed.AddDate(0, 0, -rng.Intn(20))

		if _, err := pool.Exec(ctx,
			`INSERT INTO product_views
				(user_id, product_id, view_count, total_view_duration, first_viewed_at, last_viewed_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (user_id, product_id) DO UPDATE SET
				view_count = product_views.view_count + EXCLUDED.view_count,
				total_view_duration = product_views.total_view_duration + EXCLUDED.total_view_duration,
				last_viewed_at = GREATEST(product_views.last_viewed_at, EXCLUDED.last_viewed_at)`,
			userID, productID, viewCount, duration, firstViewed, lastViewed,
		); err != nil {
			return err
		}
	}
	return nil
}

func seedOrders(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	statuses := []domain.OrderStatus{domain.OrderPaid, domain.OrderPaid, domain.OrderPaid, domain.OrderPending}

	for _i := 0; _i < n; _i++ {
		userID := int64(rng.Intn(20) + 1)
		status := statuses[rng.Intn(len(statuses))]
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(180))

		var orderID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO orders (user_id, status, created_at) VALUES ($1, $2, $3) RETURNING id`,
			userID, status, createdAt,
		).Scan(&orderID)
		if err != nil {
			return err
		}

		for _j, _jn := 0, rng.Intn(3)+1; _j < _jn; _j++ {
			productID := int64(rng.Intn(50) + 1)
			quantity := rng.Intn(2) + 1
			lineTotal := float64(quantity) * (float64(rng.Intn(500)) + 50)
			if _, err := pool.Exec(ctx,
				`INSERT INTO order_lines (order_id, product_id, quantity, line_total) VALUES ($1, $2, $3, $4)`,
				orderID, productID, quantity, lineTotal,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func pickCategories(rng *rand.Rand, all []domain.Category) []domain.Category {
	count := rng.Intn(2) + 1
	picked := make(map[domain.Category]bool, count)
	out := make([]domain.Category, 0, count)
	for len(out) < count {
		c := all[rng.Intn(len(all))]
		if !picked[c] {
			picked[c] = true
			out = append(out, c)
		}
	}
	return out
}

func pickTechniques(rng *rand.Rand, all []domain.Technique) []domain.Technique {
	count := rng.Intn(2) + 1
	picked := make(map[domain.Technique]bool, count)
	out := make([]domain.Technique, 0, count)
	for len(out) < count {
		t := all[rng.Intn(len(all))]
		if !picked[t] {
			picked[t] = true
			out = append(out, t)
		}
	}
	return out
}
