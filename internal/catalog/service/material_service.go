package service

import (
	"context"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/catalog/repository"
)

// MaterialService handles catalog items.
type MaterialService struct {
	repo *repository.MaterialRepository
}

func NewMaterialService(repo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{repo: repo}
}

type CreateMaterialRequest struct {
	MaterialNumber int     `json:"material_number" binding:"required,gt=0"`
	Description    string  `json:"description" binding:"required"`
	LongText       *string `json:"long_text"`
	Details        *string `json:"details"`
	NounID         string  `json:"noun_id" binding:"required"`
	ClassID        string  `json:"class_id" binding:"required"`
}

type UpdateMaterialRequest struct {
	MaterialNumber *int    `json:"material_number" binding:"omitempty,gt=0"`
	Description    *string `json:"description"`
	LongText       *string `json:"long_text"`
	Details        *string `json:"details"`
	NounID         *string `json:"noun_id"`
	ClassID        *string `json:"class_id"`
}

// List returns the joined projection so listings carry noun and class names.
func (s *MaterialService) List(ctx context.Context) ([]entity.MaterialWithDetails, error) {
	return s.repo.FindAllWithDetails(ctx)
}

func (s *MaterialService) Get(ctx context.Context, id string) (*entity.Material, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MaterialService) Create(ctx context.Context, req *CreateMaterialRequest) (*entity.Material, error) {
	return s.repo.Create(ctx, map[string]interface{}{
		"material_number": req.MaterialNumber,
		"description":     req.Description,
		"long_text":       req.LongText,
		"details":         req.Details,
		"noun_id":         req.NounID,
		"class_id":        req.ClassID,
	})
}

func (s *MaterialService) Update(ctx context.Context, id string, req *UpdateMaterialRequest) (*entity.Material, error) {
	input := map[string]interface{}{}
	if req.MaterialNumber != nil {
		input["material_number"] = *req.MaterialNumber
	}
	if req.Description != nil {
		input["description"] = *req.Description
	}
	if req.LongText != nil {
		input["long_text"] = *req.LongText
	}
	if req.Details != nil {
		input["details"] = *req.Details
	}
	if req.NounID != nil {
		input["noun_id"] = *req.NounID
	}
	if req.ClassID != nil {
		input["class_id"] = *req.ClassID
	}
	if len(input) == 0 {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, input)
}

func (s *MaterialService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
