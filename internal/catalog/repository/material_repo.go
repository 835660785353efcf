package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

const (
	materialTable = "material"
	// materialView joins material with noun_name and class_name for display.
	materialView = "material_search_view"
)

// MaterialRepository persists materials through the data gateway.
type MaterialRepository struct {
	gw *postgrest.Client
}

func NewMaterialRepository(gw *postgrest.Client) *MaterialRepository {
	return &MaterialRepository{gw: gw}
}

func (r *MaterialRepository) FindAll(ctx context.Context) ([]entity.Material, error) {
	var materials []entity.Material
	q := postgrest.Table(materialTable).OrderAsc("material_number").String()
	if err := r.gw.Get(ctx, q, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// FindAllWithDetails reads from the joined view so listings carry noun and
// class names without extra round trips.
func (r *MaterialRepository) FindAllWithDetails(ctx context.Context) ([]entity.MaterialWithDetails, error) {
	var materials []entity.MaterialWithDetails
	q := postgrest.Table(materialView).OrderAsc("material_number").String()
	if err := r.gw.Get(ctx, q, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var materials []entity.Material
	q := postgrest.Table(materialTable).Eq("id", id).String()
	if err := r.gw.Get(ctx, q, &materials); err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, ErrNotFound
	}
	return &materials[0], nil
}

func (r *MaterialRepository) Create(ctx context.Context, input map[string]interface{}) (*entity.Material, error) {
	var materials []entity.Material
	if err := r.gw.Post(ctx, materialTable, input, &materials); err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("gateway returned no representation for created material")
	}
	return &materials[0], nil
}

func (r *MaterialRepository) Update(ctx context.Context, id string, input map[string]interface{}) (*entity.Material, error) {
	var materials []entity.Material
	q := postgrest.Table(materialTable).Eq("id", id).String()
	if err := r.gw.Patch(ctx, q, input, &materials); err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, ErrNotFound
	}
	return &materials[0], nil
}

func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	var materials []entity.Material
	q := postgrest.Table(materialTable).Eq("id", id).String()
	err := r.gw.Delete(ctx, q, &materials)
	if err != nil {
		var gwErr *postgrest.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode == 404 {
			return ErrNotFound
		}
		return err
	}
	if len(materials) == 0 {
		return ErrNotFound
	}
	return nil
}
