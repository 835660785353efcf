package repository

import (
	"context"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

const classAttributeTable = "class_attribute"

// ClassAttributeRepository reads the attribute lookup table feeding the
// bulk-enrichment template's hidden Attributes sheet.
type ClassAttributeRepository struct {
	gw *postgrest.Client
}

func NewClassAttributeRepository(gw *postgrest.Client) *ClassAttributeRepository {
	return &ClassAttributeRepository{gw: gw}
}

func (r *ClassAttributeRepository) FindAll(ctx context.Context) ([]entity.ClassAttribute, error) {
	var attrs []entity.ClassAttribute
	if err := r.gw.Get(ctx, postgrest.Table(classAttributeTable).String(), &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}
