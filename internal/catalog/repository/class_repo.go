package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

const classTable = "class"

// ClassRepository persists classes through the data gateway.
type ClassRepository struct {
	gw *postgrest.Client
}

func NewClassRepository(gw *postgrest.Client) *ClassRepository {
	return &ClassRepository{gw: gw}
}

func (r *ClassRepository) FindAll(ctx context.Context) ([]entity.Class, error) {
	var classes []entity.Class
	if err := r.gw.Get(ctx, postgrest.Table(classTable).OrderAsc("name").String(), &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *ClassRepository) FindActive(ctx context.Context) ([]entity.Class, error) {
	var classes []entity.Class
	q := postgrest.Table(classTable).Eq("active", "true").OrderAsc("name").String()
	if err := r.gw.Get(ctx, q, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// FindByNounID returns the classes under a noun; activeOnly restricts to
// rows usable in pickers.
func (r *ClassRepository) FindByNounID(ctx context.Context, nounID string, activeOnly bool) ([]entity.Class, error) {
	q := postgrest.Table(classTable).Eq("noun_id", nounID)
	if activeOnly {
		q = q.Eq("active", "true")
	}
	var classes []entity.Class
	if err := r.gw.Get(ctx, q.OrderAsc("name").String(), &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *ClassRepository) FindByID(ctx context.Context, id string) (*entity.Class, error) {
	var classes []entity.Class
	q := postgrest.Table(classTable).Eq("id", id).String()
	if err := r.gw.Get(ctx, q, &classes); err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, ErrNotFound
	}
	return &classes[0], nil
}

func (r *ClassRepository) Create(ctx context.Context, input map[string]interface{}) (*entity.Class, error) {
	var classes []entity.Class
	if err := r.gw.Post(ctx, classTable, input, &classes); err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("gateway returned no representation for created class")
	}
	return &classes[0], nil
}

func (r *ClassRepository) Update(ctx context.Context, id string, input map[string]interface{}) (*entity.Class, error) {
	var classes []entity.Class
	q := postgrest.Table(classTable).Eq("id", id).String()
	if err := r.gw.Patch(ctx, q, input, &classes); err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, ErrNotFound
	}
	return &classes[0], nil
}

func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	var classes []entity.Class
	q := postgrest.Table(classTable).Eq("id", id).String()
	err := r.gw.Delete(ctx, q, &classes)
	if err != nil {
		var gwErr *postgrest.GatewayError
		if errors.As(err, &gwErr) && gwErr.StatusCode == 404 {
			return ErrNotFound
		}
		return err
	}
	if len(classes) == 0 {
		return ErrNotFound
	}
	return nil
}
