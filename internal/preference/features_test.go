package preference

import (
	"math"
	"testing"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

func priceOf(v float64) *float64 { return &v }

func TestApplyPricePreferenceBuckets(t *testing.T) {
	cases := []struct {
		name  string
		price *float64
		want  float64
	}{
		{"cheap", priceOf(50), 0.5 + 0.3*0.8},
		{"mid", priceOf(250), 0.5 + 0.3*0.5},
		{"boundary_mid", priceOf(100), 0.5 + 0.3*0.5},
		{"expensive", priceOf(900), 0.5 + 0.3*0.2},
		{"boundary_expensive", priceOf(500), 0.5 + 0.3*0.2},
	}

	for _, tc := range cases {
		v := Vector{}
		ApplyPricePreference(v, &domain.Product{Price: tc.price}, 0.3)
		if math.Abs(v[KeyPriceSensitivity]-tc.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tc.name, tc.want, v[KeyPriceSensitivity])
		}
	}
}

func TestApplyPricePreferenceUnknownPrice(t *testing.T) {
	v := Vector{}
	ApplyPricePreference(v, &domain.Product{}, 0.3)
	if _, ok := v[KeyPriceSensitivity]; ok {
		t.Error("expected unpriced product to leave the vector untouched")
	}
}

func TestApplyPricePreferenceAdditive(t *testing.T) {
	// Contributions are additive, not idempotent: a second call with the
	// same inputs doubles the delta.
	v := Vector{}
	p := &domain.Product{Price: priceOf(50)}

	ApplyPricePreference(v, p, 0.3)
	once := v[KeyPriceSensitivity]
	ApplyPricePreference(v, p, 0.3)
	twice := v[KeyPriceSensitivity]

	singleDelta := once - 0.5
	if math.Abs((twice-0.5)-2*singleDelta) > 1e-9 {
		t.Errorf("expected double apply to double the delta: once=%f twice=%f", once, twice)
	}
}

func TestApplyStylePreference(t *testing.T) {
	modern := &domain.Product{Categories: []domain.Category{domain.CategoryAbstract, domain.CategoryConceptual}}
	traditional := &domain.Product{Categories: []domain.Category{domain.CategoryRealist}}
	tied := &domain.Product{Categories: []domain.Category{domain.CategoryAbstract, domain.CategoryRealist}}

	v := Vector{}
	ApplyStylePreference(v, modern, 0.5)
	if math.Abs(v[KeyModernTraditional]-(0.5+0.5*0.7)) > 1e-9 {
		t.Errorf("modern: expected %f, got %f", 0.5+0.5*0.7, v[KeyModernTraditional])
	}

	v = Vector{}
	ApplyStylePreference(v, traditional, 0.5)
	if math.Abs(v[KeyModernTraditional]-(0.5+0.5*0.3)) > 1e-9 {
		t.Errorf("traditional: expected %f, got %f", 0.5+0.5*0.3, v[KeyModernTraditional])
	}

	v = Vector{}
	ApplyStylePreference(v, tied, 0.5)
	if _, ok := v[KeyModernTraditional]; ok {
		t.Error("tie: expected no change to the vector")
	}
}

func TestApplyTechnicalComplexityPreference(t *testing.T) {
	complex := &domain.Product{Techniques: []domain.Technique{domain.TechniqueOil, domain.TechniqueFresco}}
	simple := &domain.Product{Techniques: []domain.Technique{domain.TechniqueWatercolor}}

	v := Vector{}
	ApplyTechnicalComplexityPreference(v, complex, 0.2)
	if math.Abs(v[KeyTechnicalComplexity]-(0.5+0.2*0.6)) > 1e-9 {
		t.Errorf("complex: expected %f, got %f", 0.5+0.2*0.6, v[KeyTechnicalComplexity])
	}

	v = Vector{}
	ApplyTechnicalComplexityPreference(v, simple, 0.2)
	if math.Abs(v[KeyTechnicalComplexity]-(0.5+0.2*0.4)) > 1e-9 {
		t.Errorf("simple: expected %f, got %f", 0.5+0.2*0.4, v[KeyTechnicalComplexity])
	}
}

func TestApplyColorIntensityPreference(t *testing.T) {
	vibrant := &domain.Product{Techniques: []domain.Technique{domain.TechniqueAcrylic, domain.TechniqueSpray}}
	subtle := &domain.Product{Techniques: []domain.Technique{domain.TechniqueTempera}}

	v := Vector{}
	ApplyColorIntensityPreference(v, vibrant, 0.4)
	if math.Abs(v[KeyColorIntensity]-(0.5+0.4*0.7)) > 1e-9 {
		t.Errorf("vibrant: expected %f, got %f", 0.5+0.4*0.7, v[KeyColorIntensity])
	}

	v = Vector{}
	ApplyColorIntensityPreference(v, subtle, 0.4)
	if math.Abs(v[KeyColorIntensity]-(0.5+0.4*0.3)) > 1e-9 {
		t.Errorf("subtle: expected %f, got %f", 0.5+0.4*0.3, v[KeyColorIntensity])
	}

	// Oil is vibrant but also complex; Watercolor is subtle and simple. A
	// product carrying both cancels out.
	v = Vector{}
	both := &domain.Product{Techniques: []domain.Technique{domain.TechniqueOil, domain.TechniqueWatercolor}}
	ApplyColorIntensityPreference(v, both, 0.4)
	if _, ok := v[KeyColorIntensity]; ok {
		t.Error("balanced techniques: expected no change")
	}
}
