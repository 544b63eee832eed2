package preference

import (
	"math"
	"testing"

	"github.com/artemisia-corp/preference-service/internal/domain"
)

func TestNewFullVector(t *testing.T) {
	v := NewFullVector()

	wantKeys := len(domain.AllCategories()) + len(domain.AllTechniques()) + 4
	if len(v) != wantKeys {
		t.Errorf("expected %d keys, got %d", wantKeys, len(v))
	}

	for _, c := range domain.AllCategories() {
		if v[CategoryKey(c)] != 0 {
			t.Errorf("expected %s initialized to 0, got %f", CategoryKey(c), v[CategoryKey(c)])
		}
	}
	for _, key := range []string{KeyPriceSensitivity, KeyModernTraditional, KeyTechnicalComplexity, KeyColorIntensity} {
		if v[key] != 0.5 {
			t.Errorf("expected %s initialized to 0.5, got %f", key, v[key])
		}
	}
}

func TestNormalizeDividesByMax(t *testing.T) {
	v := Vector{"a": 2.0, "b": 4.0, "c": 1.0}
	v.Normalize()

	if math.Abs(v["b"]-1.0) > 1e-9 {
		t.Errorf("expected dominant entry at 1.0, got %f", v["b"])
	}
	if math.Abs(v["a"]-0.5) > 1e-9 || math.Abs(v["c"]-0.25) > 1e-9 {
		t.Errorf("expected proportional scaling, got %v", v)
	}
}

func TestNormalizeAllZero(t *testing.T) {
	v := Vector{"a": 0, "b": 0}
	v.Normalize()
	if v["a"] != 0 || v["b"] != 0 {
		t.Errorf("expected all-zero vector unchanged, got %v", v)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	v := Vector{"a": 1.0}
	c := v.Clone()
	c["a"] = 9.0
	if v["a"] != 1.0 {
		t.Errorf("clone mutation leaked into original: %v", v)
	}
}
