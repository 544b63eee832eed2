package preference

import "github.com/artemisia-corp/preference-service/internal/domain"

// Fixed membership sets for the derived taste dimensions. A product's
// category/technique sets are classified against each pair and the majority
// side decides which coefficient applies; ties contribute nothing.
var (
	modernCategories = categorySet(
		domain.CategoryAbstract, domain.CategoryContemporary,
		domain.CategorySurrealist, domain.CategoryConceptual,
	)
	traditionalCategories = categorySet(
		domain.CategoryRealist, domain.CategoryReligious,
		domain.CategoryHistorical, domain.CategoryImpressionist,
	)
	complexTechniques = techniqueSet(
		domain.TechniqueOil, domain.TechniqueFresco, domain.TechniqueMixed,
	)
	simpleTechniques = techniqueSet(
		domain.TechniqueWatercolor, domain.TechniqueInk, domain.TechniqueDigital,
	)
	vibrantTechniques = techniqueSet(
		domain.TechniqueAcrylic, domain.TechniqueOil, domain.TechniqueSpray,
	)
	subtleTechniques = techniqueSet(
		domain.TechniqueWatercolor, domain.TechniqueTempera, domain.TechniqueInk,
	)
)

// ApplyPricePreference buckets the product price and accumulates the bucket
// coefficient scaled by weight. Products without a price are skipped.
// Contributions are additive on purpose: applying the same product twice
// double-counts, so the orchestrator calls each rule once per product per cycle.
func ApplyPricePreference(v Vector, p *domain.Product, weight float64) {
	if p.Price == nil {
		return
	}
	current, ok := v[KeyPriceSensitivity]
	if !ok {
		current = derivedFeatureBase
	}
	price := *p.Price
	switch {
	case price < 100:
		v[KeyPriceSensitivity] = current + weight*0.8
	case price < 500:
		v[KeyPriceSensitivity] = current + weight*0.5
	default:
		v[KeyPriceSensitivity] = current + weight*0.2
	}
}

// ApplyStylePreference moves the modern/traditional dimension toward
// whichever side the product's categories lean.
func ApplyStylePreference(v Vector, p *domain.Product, weight float64) {
	modern, traditional := 0, 0
	for _, c := range p.Categories {
		if modernCategories[c] {
			modern++
		}
		if traditionalCategories[c] {
			traditional++
		}
	}
	applyLeaning(v, KeyModernTraditional, modern, traditional, weight, 0.7, 0.3)
}

// ApplyTechnicalComplexityPreference classifies techniques as complex vs simple.
func ApplyTechnicalComplexityPreference(v Vector, p *domain.Product, weight float64) {
	complexCount, simpleCount := 0, 0
	for _, t := range p.Techniques {
		if complexTechniques[t] {
			complexCount++
		}
		if simpleTechniques[t] {
			simpleCount++
		}
	}
	applyLeaning(v, KeyTechnicalComplexity, complexCount, simpleCount, weight, 0.6, 0.4)
}

// ApplyColorIntensityPreference classifies techniques as vibrant vs subtle.
func ApplyColorIntensityPreference(v Vector, p *domain.Product, weight float64) {
	vibrant, subtle := 0, 0
	for _, t := range p.Techniques {
		if vibrantTechniques[t] {
			vibrant++
		}
		if subtleTechniques[t] {
			subtle++
		}
	}
	applyLeaning(v, KeyColorIntensity, vibrant, subtle, weight, 0.7, 0.3)
}

func applyLeaning(v Vector, key string, high, low int, weight, highCoeff, lowCoeff float64) {
	if high == low {
		return
	}
	current, ok := v[key]
	if !ok {
		current = derivedFeatureBase
	}
	if high > low {
		v[key] = current + weight*highCoeff
	} else {
		v[key] = current + weight*lowCoeff
	}
}

func categorySet(cs ...domain.Category) map[domain.Category]bool {
	set := make(map[domain.Category]bool, len(cs))
	for _, c := range cs {
		set[c] = true
	}
	return set
}

func techniqueSet(ts ...domain.Technique) map[domain.Technique]bool {
	set := make(map[domain.Technique]bool, len(ts))
	for _, t := range ts {
		set[t] = true
	}
	return set
}
