package domain

import "time"

type Category string

const (
	CategoryAbstract      Category = "Abstract"
	CategoryContemporary  Category = "Contemporary"
	CategorySurrealist    Category = "Surrealist"
	CategoryConceptual    Category = "Conceptual"
	CategoryRealist       Category = "Realist"
	CategoryReligious     Category = "Religious"
	CategoryHistorical    Category = "Historical"
	CategoryImpressionist Category = "Impressionist"
	CategoryLandscape     Category = "Landscape"
	CategoryPortrait      Category = "Portrait"
)

type Technique string

const (
	TechniqueOil        Technique = "Oil"
	TechniqueAcrylic    Technique = "Acrylic"
	TechniqueWatercolor Technique = "Watercolor"
	TechniqueFresco     Technique = "Fresco"
	TechniqueInk        Technique = "Ink"
	TechniqueTempera    Technique = "Tempera"
	TechniqueSpray      Technique = "Spray"
	TechniqueDigital    Technique = "Digital"
	TechniqueMixed      Technique = "Mixed"
)

func AllCategories() []Category {
	return []Category{
		CategoryAbstract, CategoryContemporary, CategorySurrealist, CategoryConceptual,
		CategoryRealist, CategoryReligious, CategoryHistorical, CategoryImpressionist,
		CategoryLandscape, CategoryPortrait,
	}
}

func AllTechniques() []Technique {
	return []Technique{
		TechniqueOil, TechniqueAcrylic, TechniqueWatercolor, TechniqueFresco,
		TechniqueInk, TechniqueTempera, TechniqueSpray, TechniqueDigital, TechniqueMixed,
	}
}

// Product is a read-only snapshot of catalog data at scoring time. The
// preference engine never mutates it.
type Product struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Price      *float64    `json:"price,omitempty"`
	Available  bool        `json:"available"`
	Categories []Category  `json:"categories"`
	Techniques []Technique `json:"techniques"`
	CreatedAt  time.Time   `json:"created_at"`
}
