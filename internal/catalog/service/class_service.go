package service

import (
	"context"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/catalog/repository"
)

// ClassService handles taxonomy subcategories.
type ClassService struct {
	repo *repository.ClassRepository
}

func NewClassService(repo *repository.ClassRepository) *ClassService {
	return &ClassService{repo: repo}
}

type CreateClassRequest struct {
	NounID string `json:"noun_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

type UpdateClassRequest struct {
	NounID *string `json:"noun_id"`
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

// List returns classes, optionally restricted to one noun and to active rows
// (the configuration UI's pickers exclude inactive entries).
func (s *ClassService) List(ctx context.Context, nounID string, activeOnly bool) ([]entity.Class, error) {
	if nounID != "" {
		return s.repo.FindByNounID(ctx, nounID, activeOnly)
	}
	if activeOnly {
		return s.repo.FindActive(ctx)
	}
	return s.repo.FindAll(ctx)
}

func (s *ClassService) Get(ctx context.Context, id string) (*entity.Class, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClassService) Create(ctx context.Context, req *CreateClassRequest) (*entity.Class, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return s.repo.Create(ctx, map[string]interface{}{
		"noun_id": req.NounID,
		"name":    req.Name,
		"active":  active,
	})
}

func (s *ClassService) Update(ctx context.Context, id string, req *UpdateClassRequest) (*entity.Class, error) {
	input := map[string]interface{}{}
	if req.NounID != nil {
		input["noun_id"] = *req.NounID
	}
	if req.Name != nil {
		input["name"] = *req.Name
	}
	if req.Active != nil {
		input["active"] = *req.Active
	}
	if len(input) == 0 {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, input)
}

func (s *ClassService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
