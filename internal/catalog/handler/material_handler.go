package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/matforge/catalog/internal/catalog/service"
)

type MaterialHandler struct {
	svc        *service.MaterialService
	search     *service.SearchService
	enrichment *service.EnrichmentService
}

func NewMaterialHandler(svc *service.MaterialService, search *service.SearchService, enrichment *service.EnrichmentService) *MaterialHandler {
	return &MaterialHandler{svc: svc, search: search, enrichment: enrichment}
}

// List GET /api/v1/materials
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, err, "Material not found")
		return
	}
	Success(c, gin.H{"items": materials})
}

// Get GET /api/v1/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err, "Material not found")
		return
	}
	Success(c, material)
}

// Create POST /api/v1/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	material, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err, "Material not found")
		return
	}
	Created(c, material)
}

// Update PATCH /api/v1/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	material, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err, "Material not found")
		return
	}
	Success(c, material)
}

// Delete DELETE /api/v1/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err, "Material not found")
		return
	}
	Success(c, nil)
}

// Search GET /api/v1/materials/search?q=term
// Returns up to 100 matches; "corrected" is present only when the query was
// spell-corrected.
func (h *MaterialHandler) Search(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	Success(c, result)
}

// BulkEnrichment GET /api/v1/materials/bulk-enrichment
// Streams the generated workbook as a file download.
func (h *MaterialHandler) BulkEnrichment(c *gin.Context) {
	f, err := h.enrichment.GenerateTemplate(c.Request.Context())
	if err != nil {
		InternalError(c, "Internal server error")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+service.TemplateFilename)
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	if err := f.Write(c.Writer); err != nil {
		// Headers are already sent, the client sees a truncated download.
		_ = c.Error(err)
	}
}
