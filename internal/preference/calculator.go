package preference

import (
	"context"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/logger"
)

// ViewInfluenceFactor caps how much the view-based signal can move an
// already-seeded purchase-based vector: adjusted per-product weights sum to
// at most 0.30 for one user in one call.
const ViewInfluenceFactor = 0.3

type Catalog interface {
	ProductsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
}

// Calculator blends a user's view history into an existing preference
// vector. Every failure inside it is logged and swallowed: a recommendation
// request must never fail because the view contribution could not be
// computed, and since nothing is written to the vector before all fetches
// succeed, the vector is left in its pre-call state on error.
type Calculator struct {
	history HistoryProvider
	catalog Catalog
	log     *logger.Logger
}

func NewCalculator(history HistoryProvider, catalog Catalog, log *logger.Logger) *Calculator {
	return &Calculator{history: history, catalog: catalog, log: log.Named("view-preference")}
}

func (c *Calculator) AddViewBasedPreferences(ctx context.Context, userID int64, vector Vector) {
	entries, err := c.history.History(ctx, userID)
	if err != nil {
		c.log.Errorw("fetch view history failed, skipping view contribution",
			"user_id", userID, "error", err)
		return
	}
	if len(entries) == 0 {
		c.log.Debugw("no view history", "user_id", userID)
		return
	}

	weights := CalculateViewWeights(entries)

	ids := make([]int64, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	products, err := c.catalog.ProductsByIDs(ctx, ids)
	if err != nil {
		c.log.Errorw("fetch viewed products failed, skipping view contribution",
			"user_id", userID, "error", err)
		return
	}

	totalViewWeight := 0.0
	for _, w := range weights {
		totalViewWeight += w
	}
	if totalViewWeight <= 0 {
		return
	}

	applied := 0
	for productID, weight := range weights {
		product, ok := products[productID]
		if !ok {
			// Product vanished from the catalog between scoring and lookup;
			// it contributes nothing.
			continue
		}
		adjusted := weight / totalViewWeight * ViewInfluenceFactor
		ApplyProductToVector(vector, product, adjusted)
		applied++
	}

	c.log.Debugw("applied view-based preferences",
		"user_id", userID, "scored", len(weights), "applied", applied)
}
