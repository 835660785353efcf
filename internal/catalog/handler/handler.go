package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/catalog/service"
	"github.com/matforge/catalog/internal/config"
)

// Handlers is the handler registry.
type Handlers struct {
	Auth     *AuthHandler
	Noun     *NounHandler
	Class    *ClassHandler
	Material *MaterialHandler
}

// NewHandlers wires all handlers.
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(svc.Auth, svc.Session, cfg),
		Noun:     NewNounHandler(svc.Noun),
		Class:    NewClassHandler(svc.Class),
		Material: NewMaterialHandler(svc.Material, svc.Search, svc.Enrichment),
	}
}

// Response is the common response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created sends a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error envelope. The HTTP status is the leading three
// digits of the application code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// handleError maps service errors onto the envelope. Unknown errors become
// a generic 500; gateway error details are never leaked to clients.
func handleError(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, notFoundMessage)
		return
	}
	InternalError(c, "Internal server error")
}

// GetUsername returns the authenticated username from the request context.
func GetUsername(c *gin.Context) string {
	username, _ := c.Get("username")
	if name, ok := username.(string); ok {
		return name
	}
	return ""
}
