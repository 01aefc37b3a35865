package domain

// CatalogSection is one pre-built section template offered for installation.
// Rows are seeded by an administrative process; the service only reads them.
type CatalogSection struct {
	ID              int64  `json:"id"`
	Category        string `json:"category"`
	VariationNumber int    `json:"variation_number"`
	LiquidMarkup    string `json:"liquid_markup"`
	SchemaJSON      string `json:"schema_json"`
	IsPremium       bool   `json:"is_premium"`
}

// CategorySummary aggregates the catalog for the dashboard category list.
type CategorySummary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// Customizations maps setting ids to merchant-instructed override values
// (heading text, colors, spacing). All entries are optional; anything not
// overridden falls back to the section's authored schema default.
type Customizations map[string]any

// Customization is one persisted per-shop settings blob.
type Customization struct {
	ShopDomain string         `json:"shop_domain"`
	SectionID  int64          `json:"section_id"`
	Settings   Customizations `json:"settings"`
}
