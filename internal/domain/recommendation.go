package domain

type RecommendationResult struct {
	Products []Product
	CacheHit bool
	Fallback bool
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	Fallback    bool   `json:"fallback"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}
