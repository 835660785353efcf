package service

import (
	"context"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/catalog/repository"
)

// NounService handles taxonomy top-level categories.
type NounService struct {
	repo *repository.NounRepository
}

func NewNounService(repo *repository.NounRepository) *NounService {
	return &NounService{repo: repo}
}

// CreateNounRequest is validated by binding before any gateway call.
type CreateNounRequest struct {
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

// UpdateNounRequest carries a partial change; nil fields are left untouched.
type UpdateNounRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

func (s *NounService) List(ctx context.Context, activeOnly bool) ([]entity.Noun, error) {
	if activeOnly {
		return s.repo.FindActive(ctx)
	}
	return s.repo.FindAll(ctx)
}

func (s *NounService) Get(ctx context.Context, id string) (*entity.Noun, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *NounService) Create(ctx context.Context, req *CreateNounRequest) (*entity.Noun, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return s.repo.Create(ctx, map[string]interface{}{
		"name":   req.Name,
		"active": active,
	})
}

func (s *NounService) Update(ctx context.Context, id string, req *UpdateNounRequest) (*entity.Noun, error) {
	input := map[string]interface{}{}
	if req.Name != nil {
		input["name"] = *req.Name
	}
	if req.Active != nil {
		input["active"] = *req.Active
	}
	if len(input) == 0 {
		// Nothing to change; return the current row.
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes the noun; its classes go with it via the database cascade.
func (s *NounService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
