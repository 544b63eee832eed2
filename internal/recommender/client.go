package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artemisia-corp/preference-service/internal/domain"
	"github.com/artemisia-corp/preference-service/internal/logger"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Client talks to the external recommendation service over HTTP/JSON. Every
// call runs through a circuit breaker so a dead recommender fails fast
// instead of tying up request goroutines; callers treat any error as "use
// the fallback path".
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	log     *logger.Logger
}

func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	cbLog := log.Named("recommender")
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "recommender-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			cbLog.Warnw("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		cb:      cb,
		log:     cbLog,
	}
}

// Recommendations fetches the ranked product ids for a user. A malformed
// body is treated as an empty result, not an error.
func (c *Client) Recommendations(ctx context.Context, userID int64, topN int) ([]int64, error) {
	url := fmt.Sprintf("%s/recommendations/%d?top_n=%d", c.baseURL, userID, topN)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(body, &ids); err != nil {
		c.log.Warnw("malformed recommendations response, treating as empty",
			"user_id", userID, "error", err)
		return nil, nil
	}
	return ids, nil
}

// SimilarUsers fetches user ids with similar taste. A response without the
// similar_users key yields an empty slice.
func (c *Client) SimilarUsers(ctx context.Context, userID int64, limit int) ([]int64, error) {
	url := fmt.Sprintf("%s/similar_users/%d?limit=%d", c.baseURL, userID, limit)
	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		SimilarUsers []int64 `json:"similar_users"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Warnw("malformed similar_users response, treating as empty",
			"user_id", userID, "error", err)
		return nil, nil
	}
	return resp.SimilarUsers, nil
}

// Train posts the training payload and returns the service's opaque reply.
func (c *Client) Train(ctx context.Context, payload any) (string, error) {
	url := fmt.Sprintf("%s/train", c.baseURL)
	body, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// NotifyView tells the recommender about a single view event. Best effort:
// the caller logs failures at warn level and moves on.
func (c *Client) NotifyView(ctx context.Context, userID, productID int64, durationSeconds int) error {
	payload := map[string]any{
		"user_id":    userID,
		"product_id": productID,
		"duration":   durationSeconds,
	}
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}

	url := fmt.Sprintf("%s/update-view", c.baseURL)
	_, err := c.do(ctx, http.MethodPost, url, payload)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	return c.cb.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("marshal request payload: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRecommenderUnavailable, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %s returned %d", domain.ErrRecommenderUnavailable, url, resp.StatusCode)
		}
		return body, nil
	})
}
