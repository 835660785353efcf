package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/matforge/catalog/internal/catalog/service"
)

type NounHandler struct {
	svc *service.NounService
}

func NewNounHandler(svc *service.NounService) *NounHandler {
	return &NounHandler{svc: svc}
}

// List GET /api/v1/nouns?active=true
func (h *NounHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	nouns, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		handleError(c, err, "Noun not found")
		return
	}
	Success(c, gin.H{"items": nouns})
}

// Get GET /api/v1/nouns/:id
func (h *NounHandler) Get(c *gin.Context) {
	noun, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err, "Noun not found")
		return
	}
	Success(c, noun)
}

// Create POST /api/v1/nouns
func (h *NounHandler) Create(c *gin.Context) {
	var req service.CreateNounRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	noun, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err, "Noun not found")
		return
	}
	Created(c, noun)
}

// Update PATCH /api/v1/nouns/:id
func (h *NounHandler) Update(c *gin.Context) {
	var req service.UpdateNounRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	noun, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err, "Noun not found")
		return
	}
	Success(c, noun)
}

// Delete DELETE /api/v1/nouns/:id
// Dependent classes are removed by the database cascade.
func (h *NounHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err, "Noun not found")
		return
	}
	Success(c, nil)
}
