package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/matforge/catalog/internal/catalog/service"
)

type ClassHandler struct {
	svc *service.ClassService
}

func NewClassHandler(svc *service.ClassService) *ClassHandler {
	return &ClassHandler{svc: svc}
}

// List GET /api/v1/classes?noun_id=X&active=true
func (h *ClassHandler) List(c *gin.Context) {
	nounID := c.Query("noun_id")
	activeOnly := c.Query("active") == "true"
	classes, err := h.svc.List(c.Request.Context(), nounID, activeOnly)
	if err != nil {
		handleError(c, err, "Class not found")
		return
	}
	Success(c, gin.H{"items": classes})
}

// ListByNoun GET /api/v1/nouns/:id/classes
func (h *ClassHandler) ListByNoun(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	classes, err := h.svc.List(c.Request.Context(), c.Param("id"), activeOnly)
	if err != nil {
		handleError(c, err, "Class not found")
		return
	}
	Success(c, gin.H{"items": classes})
}

// Get GET /api/v1/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err, "Class not found")
		return
	}
	Success(c, class)
}

// Create POST /api/v1/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req service.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	class, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err, "Class not found")
		return
	}
	Created(c, class)
}

// Update PATCH /api/v1/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	var req service.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	class, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err, "Class not found")
		return
	}
	Success(c, class)
}

// Delete DELETE /api/v1/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err, "Class not found")
		return
	}
	Success(c, nil)
}
