package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofleads/backend/internal/domain"
)

// CreateLead handles POST /api/v1/leads
func (h *Handler) CreateLead(c *gin.Context) {
	var req domain.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	lead, err := h.leads.CreateLead(c.Request.Context(), &req)
	if err != nil {
		if missingFields(c, err) {
			return
		}
		h.internalError(c, "Failed to save lead", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "leadId": lead.ID})
}

// CreateFlowLead handles POST /api/v1/flow-leads
func (h *Handler) CreateFlowLead(c *gin.Context) {
	var req domain.FlowLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	lead, err := h.leads.CreateFlowLead(c.Request.Context(), &req)
	if err != nil {
		if missingFields(c, err) {
			return
		}
		h.internalError(c, "Failed to save lead", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"id":           lead.ID,
		"qualifyScore": lead.QualifyScore,
		"urgencyLevel": lead.UrgencyLevel,
	})
}

// CreateBusinessUser handles POST /api/v1/business-users
func (h *Handler) CreateBusinessUser(c *gin.Context) {
	var req domain.BusinessUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.leads.CreateBusinessUser(c.Request.Context(), &req)
	if err != nil {
		if missingFields(c, err) {
			return
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Email already registered",
				"message": "A business user with this email already exists",
			})
			return
		}
		h.internalError(c, "Failed to save business user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userId": user.ID})
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrAccountPending):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account pending approval"})
		default:
			h.internalError(c, "Login failed", err)
		}
		return
	}

	u := result.User
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user": gin.H{
			"id":          u.ID,
			"name":        u.Name,
			"email":       u.Email,
			"companyName": u.CompanyName,
			"slug":        u.Slug,
		},
	})
}
