package handler

import "github.com/artemisia-corp/preference-service/internal/domain"

type RecommendationResponse struct {
	UserID   int64                     `json:"user_id"`
	Products []domain.Product          `json:"products"`
	Metadata domain.RecommendationMeta `json:"metadata"`
}

type SimilarUsersResponse struct {
	UserID       int64   `json:"user_id"`
	SimilarUsers []int64 `json:"similar_users"`
}

type ProductListResponse struct {
	UserID   int64            `json:"user_id"`
	Products []domain.Product `json:"products"`
}

type CleanupResponse struct {
	DeletedViews int64 `json:"deleted_views"`
	DaysKept     int   `json:"days_kept"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
