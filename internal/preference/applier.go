package preference

import "github.com/artemisia-corp/preference-service/internal/domain"

// ApplyProductToVector folds one viewed product into the vector: direct
// category and technique weights plus the four derived dimensions. All
// effects are in-place additive mutations; empty category/technique sets
// are a no-op.
func ApplyProductToVector(v Vector, p *domain.Product, weight float64) {
	applyCategories(v, p, weight)
	applyTechniques(v, p, weight)
	applyDerivedFeatures(v, p, weight)
}

func applyCategories(v Vector, p *domain.Product, weight float64) {
	for _, c := range p.Categories {
		v.Add(CategoryKey(c), weight)
	}
}

func applyTechniques(v Vector, p *domain.Product, weight float64) {
	for _, t := range p.Techniques {
		v.Add(TechniqueKey(t), weight)
	}
}

func applyDerivedFeatures(v Vector, p *domain.Product, weight float64) {
	ApplyPricePreference(v, p, weight)
	ApplyStylePreference(v, p, weight)
	ApplyTechnicalComplexityPreference(v, p, weight)
	ApplyColorIntensityPreference(v, p, weight)
}
