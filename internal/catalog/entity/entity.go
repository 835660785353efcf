package entity

// Noun is a top-level taxonomy category for materials.
type Noun struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Class is a taxonomy subcategory, child of exactly one Noun. Deleting a
// Noun cascades to its Classes (enforced by the database behind the gateway).
type Class struct {
	ID     string `json:"id"`
	NounID string `json:"noun_id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Material is the catalog item being managed, tagged with one Noun and one
// Class. The class-belongs-to-noun constraint is enforced by UI filtering,
// not by the data layer.
type Material struct {
	ID             string  `json:"id"`
	MaterialNumber int     `json:"material_number"`
	Description    string  `json:"description"`
	LongText       *string `json:"long_text"`
	Details        *string `json:"details"`
	NounID         string  `json:"noun_id"`
	ClassID        string  `json:"class_id"`
}

// MaterialWithDetails is the read-only projection joining Material with its
// noun and class names for list and search display. Never persisted.
type MaterialWithDetails struct {
	Material
	NounName  string `json:"noun_name"`
	ClassName string `json:"class_name"`
}

// ClassAttribute maps a (noun, class) combination to the attribute names an
// enrichment template should offer for it.
type ClassAttribute struct {
	ID         string   `json:"id"`
	NounID     string   `json:"noun_id"`
	ClassID    string   `json:"class_id"`
	Attributes []string `json:"attributes"`
}
