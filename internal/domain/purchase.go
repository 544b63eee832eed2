package domain

import "time"

type OrderStatus string

const (
	OrderPending  OrderStatus = "PENDING"
	OrderPaid     OrderStatus = "PAID"
	OrderCanceled OrderStatus = "CANCELED"
)

// PurchaseLine is one paid order line, the unit the purchase-based
// preference weighting works from.
type PurchaseLine struct {
	ProductID   int64
	Quantity    int
	LineTotal   float64
	PurchasedAt time.Time
}
