// Package api implements the legacy REST demo named in spec §6 — two
// endpoints kept only because the spec's External Interfaces section still
// lists them, not because they're part of the core rewrite. Grounded on
// the teacher's internal/api/handlers/auth_handler.go gin-handler shape.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diceparty/internal/auth"
)

// Handlers groups the legacy demo endpoints.
type Handlers struct {
	authenticator *auth.Authenticator
}

// NewHandlers builds Handlers bound to an Authenticator.
func NewHandlers(authenticator *auth.Authenticator) *Handlers {
	return &Handlers{authenticator: authenticator}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Hello answers POST /v1/hello with a greeting addressed to the posted
// name, alongside the authenticated caller's Cognito username.
func (h *Handlers) Hello(c *gin.Context) {
	claims, err := h.authenticator.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hello, " + req.Name,
		"user":    claims.CognitoUsername,
	})
}

// Goodbye answers POST /v1/goodbye with a farewell addressed to the posted
// name, alongside the authenticated caller's Cognito username.
func (h *Handlers) Goodbye(c *gin.Context) {
	claims, err := h.authenticator.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goodbye, " + req.Name,
		"user":    claims.CognitoUsername,
	})
}
