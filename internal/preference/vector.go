package preference

import (
	"fmt"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

// Vector is a sparse feature-name -> weight mapping describing a user's
// inferred taste. Keys fall into three namespaces: cat_<Category>,
// tech_<Technique> and the derived scalar features below.
type Vector map[string]float64

const (
	KeyPriceSensitivity    = "price_sensitivity"
	KeyModernTraditional   = "modern_traditional"
	KeyTechnicalComplexity = "technical_complexity"
	KeyColorIntensity      = "color_intensity"
)

const derivedFeatureBase = 0.5

func CategoryKey(c domain.Category) string {
	return fmt.Sprintf("cat_%s", c)
}

func TechniqueKey(t domain.Technique) string {
	return fmt.Sprintf("tech_%s", t)
}

// NewFullVector returns a vector with every category and technique key at
// zero and every derived scalar at its 0.5 base, the shape persisted per user.
func NewFullVector() Vector {
	v := make(Vector)
	for _, c := range domain.AllCategories() {
		v[CategoryKey(c)] = 0
	}
	for _, t := range domain.AllTechniques() {
		v[TechniqueKey(t)] = 0
	}
	v[KeyPriceSensitivity] = derivedFeatureBase
	v[KeyModernTraditional] = derivedFeatureBase
	v[KeyTechnicalComplexity] = derivedFeatureBase
	v[KeyColorIntensity] = derivedFeatureBase
	return v
}

// Add accumulates delta onto key, treating an absent key as zero.
func (v Vector) Add(key string, delta float64) {
	v[key] += delta
}

// Normalize divides every entry by the maximum entry so the dominant
// feature reaches exactly 1.0. An empty or all-nonpositive vector is left
// unchanged.
func (v Vector) Normalize() {
	max := 0.0
	for _, w := range v {
		if w > max {
			max = w
		}
	}
	if max <= 0 {
		return
	}
	for k, w := range v {
		v[k] = w / max
	}
}

// Clone returns an independent copy. Used to guard the caller's vector when
// a computation may be abandoned midway.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, w := range v {
		out[k] = w
	}
	return out
}
