package repository

import (
	"context"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

const searchLimit = 100

// SearchRepository runs the fuzzy search queries against the gateway.
type SearchRepository struct {
	gw *postgrest.Client
}

func NewSearchRepository(gw *postgrest.Client) *SearchRepository {
	return &SearchRepository{gw: gw}
}

// Suggestion is one spelling-correction candidate from the database-side
// edit-distance function, best candidates first.
type Suggestion struct {
	Word     string `json:"word"`
	Distance int    `json:"distance"`
}

// SpellingSuggestions asks the gateway's suggestion function for corrections
// of a single token.
func (r *SearchRepository) SpellingSuggestions(ctx context.Context, term string) ([]Suggestion, error) {
	var suggestions []Suggestion
	q := postgrest.RPC("get_spelling_suggestions").Param("search_term", term).String()
	if err := r.gw.Get(ctx, q, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// SearchView runs a disjunctive filter against the joined materials view,
// ordered by material number, capped at 100 rows. Larger result sets are
// silently truncated.
func (r *SearchRepository) SearchView(ctx context.Context, conditions []string) ([]entity.MaterialWithDetails, error) {
	var materials []entity.MaterialWithDetails
	q := postgrest.Table(materialView).
		Or(conditions...).
		OrderAsc("material_number").
		Limit(searchLimit).
		String()
	if err := r.gw.Get(ctx, q, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}
