package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price, available, created_at FROM products WHERE id = $1`,
		productID,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Available, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product id=%d: %w", productID, err)
	}

	if err := r.loadAttributes(ctx, map[int64]*domain.Product{p.ID: p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductsByIDs batch-fetches product snapshots with their category and
// technique sets. Ids that do not resolve are simply absent from the result.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	products := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, available, created_at FROM products WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Available, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	if err := r.loadAttributes(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// PopularProducts is the recommendation fallback: available products ranked
// by total view volume across all users.
func (r *Repository) PopularProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.price, p.available, p.created_at
		 FROM products p
		 LEFT JOIN product_views pv ON pv.product_id = p.id
		 WHERE p.available
		 GROUP BY p.id
		 ORDER BY COALESCE(SUM(pv.view_count), 0) DESC, p.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query popular products: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Product)
	var order []int64
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Available, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan popular product: %w", err)
		}
		byID[p.ID] = p
		order = append(order, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular products: %w", err)
	}

	if err := r.loadAttributes(ctx, byID); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func (r *Repository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product id=%d: %w", productID, err)
	}
	return exists, nil
}

func (r *Repository) loadAttributes(ctx context.Context, products map[int64]*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	for id := range products {
		ids = append(ids, id)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, category FROM product_categories WHERE product_id = ANY($1)`, ids,
	)
	if err != nil {
		return fmt.Errorf("query product categories: %w", err)
	}
	for rows.Next() {
		var id int64
		var c domain.Category
		if err := rows.Scan(&id, &c); err != nil {
			rows.Close()
			return fmt.Errorf("scan product category: %w", err)
		}
		products[id].Categories = append(products[id].Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate product categories: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT product_id, technique FROM product_techniques WHERE product_id = ANY($1)`, ids,
	)
	if err != nil {
		return fmt.Errorf("query product techniques: %w", err)
	}
	for rows.Next() {
		var id int64
		var t domain.Technique
		if err := rows.Scan(&id, &t); err != nil {
			rows.Close()
			return fmt.Errorf("scan product technique: %w", err)
		}
		products[id].Techniques = append(products[id].Techniques, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate product techniques: %w", err)
	}
	return nil
}
