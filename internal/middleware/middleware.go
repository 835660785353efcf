package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matforge/catalog/internal/shared/cognito"
)

// SessionCookie is the name of the session cookie issued at login.
const SessionCookie = "session_id"

// Logger logs one line per request.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString("request_id")),
		}

		if username, exists := c.Get("username"); exists {
			fields = append(fields, zap.String("username", username.(string)))
		}

		if status >= 500 {
			logger.Error("Server error", fields...)
		} else if status >= 400 {
			logger.Warn("Client error", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

// CORS handles cross-origin requests and preflight.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestID propagates or assigns an X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// TokenValidator resolves an access token to a username, typically with a
// round trip to the identity provider.
type TokenValidator interface {
	CurrentUser(ctx context.Context, accessToken string) (string, error)
}

// SessionStore resolves a session cookie to an access token.
type SessionStore interface {
	ParseCookie(value string) (string, error)
	Get(ctx context.Context, id string) (string, error)
}

// CognitoAuth authenticates every request against the identity provider.
// The token comes from the Authorization header (raw or base64-encoded
// bearer value) or, failing that, from the session cookie.
func CognitoAuth(validator TokenValidator, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, sessions)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40100,
				"message": "Authorization is required",
			})
			c.Abort()
			return
		}

		username, err := validator.CurrentUser(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			code := 40102
			message := "Invalid or expired token"
			if !errors.Is(err, cognito.ErrNotAuthorized) {
				status = http.StatusInternalServerError
				code = 50000
				message = "Authentication service unavailable"
			}
			c.JSON(status, gin.H{"code": code, "message": message})
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Set("access_token", token)
		c.Next()
	}
}

// tokenFromRequest extracts the access token. Bearer values are commonly
// base64-encoded by the cookie-issuing flow, so decoding is attempted first
// and the raw value kept when it is not valid base64.
func tokenFromRequest(c *gin.Context, sessions SessionStore) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			if decoded, err := base64.StdEncoding.DecodeString(parts[1]); err == nil {
				return string(decoded)
			}
			return parts[1]
		}
	}

	if sessions != nil {
		if value, err := c.Cookie(SessionCookie); err == nil && value != "" {
			id, err := sessions.ParseCookie(value)
			if err != nil {
				return ""
			}
			if token, err := sessions.Get(c.Request.Context(), id); err == nil {
				return token
			}
		}
	}
	return ""
}
