package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

const nounTable = "noun"

// NounRepository persists nouns through the data gateway.
type NounRepository struct {
	gw *postgrest.Client
}

func NewNounRepository(gw *postgrest.Client) *NounRepository {
	return &NounRepository{gw: gw}
}

// FindAll returns every noun, active or not.
func (r *NounRepository) FindAll(ctx context.Context) ([]entity.Noun, error) {
	var nouns []entity.Noun
	if err := r.gw.Get(ctx, postgrest.Table(nounTable).OrderAsc("name").String(), &nouns); err != nil {
		return nil, err
	}
	return nouns, nil
}

// FindActive returns nouns available in creation and edit pickers.
func (r *NounRepository) FindActive(ctx context.Context) ([]entity.Noun, error) {
	var nouns []entity.Noun
	q := postgrest.Table(nounTable).Eq("active", "true").OrderAsc("name").String()
	if err := r.gw.Get(ctx, q, &nouns); err != nil {
		return nil, err
	}
	return nouns, nil
}

// FindByID returns a single noun or ErrNotFound.
func (r *NounRepository) FindByID(ctx context.Context, id string) (*entity.Noun, error) {
	var nouns []entity.Noun
	q := postgrest.Table(nounTable).Eq("id", id).String()
	if err := r.gw.Get(ctx, q, &nouns); err != nil {
		return nil, err
	}
	if len(nouns) == 0 {
		return nil, ErrNotFound
	}
	return &nouns[0], nil
}

// Create inserts a noun and returns the persisted row with its assigned id.
func (r *NounRepository) Create(ctx context.Context, input map[string]interface{}) (*entity.Noun, error) {
	var nouns []entity.Noun
	if err := r.gw.Post(ctx, nounTable, input, &nouns); err != nil {
		return nil, err
	}
	if len(nouns) == 0 {
		return nil, fmt.Errorf("gateway returned no representation for created noun")
	}
	return &nouns[0], nil
}

// Update applies a partial change and returns the updated row, or
// ErrNotFound when the filter matched nothing.
func (r *NounRepository) Update(ctx context.Context, id string, input map[string]interface{}) (*entity.Noun, error) {
	var nouns []entity.Noun
	q := postgrest.Table(nounTable).Eq("id", id).String()
	if err := r.gw.Patch(ctx, q, input, &nouns); err != nil {
		return nil, err
	}
	if len(nouns) == 0 {
		return nil, ErrNotFound
	}
	return &nouns[0], nil
}

// Delete removes a noun. The database cascades the delete to the noun's
// classes. ErrNotFound when nothing was deleted.
func (r *NounRepository) Delete(ctx context.Context, id string) error {
	var nouns []entity.Noun
	q := postgrest.Table(nounTable).Eq("id", id).String()
	err := r.gw.Delete(ctx, q, &nouns)
	if err != nil {
		var gwErr *postgrest.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode == 404 {
			return ErrNotFound
		}
		return err
	}
	if len(nouns) == 0 {
		return ErrNotFound
	}
	return nil
}
