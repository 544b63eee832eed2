package repository

import (
	"context"
	"fmt"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

// PaidPurchaseLines returns every order line from the user's paid orders,
// newest first. Feeds the purchase-based preference seeding and the
// cold-start synthetic view history.
func (r *Repository) PaidPurchaseLines(ctx context.Context, userID int64) ([]domain.PurchaseLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ol.product_id, ol.quantity, ol.line_total, o.created_at
		 FROM order_lines ol
		 JOIN orders o ON o.id = ol.order_id
		 WHERE o.user_id = $1 AND o.status = $2
		 ORDER BY o.created_at DESC`,
		userID, domain.OrderPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("query paid purchase lines for user %d: %w", userID, err)
	}
	defer rows.Close()

	var lines []domain.PurchaseLine
	for rows.Next() {
		var l domain.PurchaseLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.LineTotal, &l.PurchasedAt); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase lines: %w", err)
	}
	return lines, nil
}

func (r *Repository) CountPaidOrders(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status = $2`,
		userID, domain.OrderPaid,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count paid orders for user %d: %w", userID, err)
	}
	return count, nil
}
