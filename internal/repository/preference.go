package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/preference"
	"github.com/jackc/pgx/v5"
)

// SavePreference upserts the user's preference vector as jsonb and stamps
// last_updated.
func (r *Repository) SavePreference(ctx context.Context, userID int64, vector preference.Vector) error {
	payload, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal preference vector: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, vector, last_updated)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			vector = EXCLUDED.vector,
			last_updated = now()`,
		userID, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert preference for user %d: %w", userID, err)
	}
	return nil
}

func (r *Repository) GetPreference(ctx context.Context, userID int64) (preference.Vector, time.Time, error) {
	var payload []byte
	var lastUpdated time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT vector, last_updated FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&payload, &lastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, domain.ErrUserNotFound
		}
		return nil, time.Time{}, fmt.Errorf("query preference for user %d: %w", userID, err)
	}

	vector := make(preference.Vector)
	if err := json.Unmarshal(payload, &vector); err != nil {
		return nil, time.Time{}, fmt.Errorf("unmarshal preference vector for user %d: %w", userID, err)
	}
	return vector, lastUpdated, nil
}
