package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	// ErrRecommenderUnavailable covers unreachable, non-2xx and circuit-open
	// responses from the external recommender. Callers fall back to the
	// popularity list instead of surfacing it.
	ErrRecommenderUnavailable = errors.New("recommender unavailable")
)
