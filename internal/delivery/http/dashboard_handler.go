package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/usecase"
)

// principalKey is the gin context key AuthMiddleware stores the caller under
const principalKey = "principal"

func principal(c *gin.Context) *domain.Principal {
	p, _ := c.MustGet(principalKey).(*domain.Principal)
	return p
}

// queryInt reads an integer query parameter; absent or malformed values yield 0
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// ListLeads handles GET /api/v1/dashboard/leads?type=&limit=
func (h *Handler) ListLeads(c *gin.Context) {
	p := principal(c)
	limit := queryInt(c, "limit")

	if c.Query("type") == "business" {
		users, err := h.dashboard.ListBusinessUsers(c.Request.Context(), limit)
		if err != nil {
			h.internalError(c, "Failed to fetch leads", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": "business", "count": len(users), "leads": users})
		return
	}

	leads, err := h.dashboard.ListLeads(c.Request.Context(), p, limit)
	if err != nil {
		h.internalError(c, "Failed to fetch leads", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"type": "user", "tenant": p.Slug, "count": len(leads), "leads": leads})
}

// ListProspects handles GET /api/v1/dashboard/prospects
func (h *Handler) ListProspects(c *gin.Context) {
	page, err := h.dashboard.ListProspects(c.Request.Context(), principal(c), usecase.ProspectListParams{
		Limit:          queryInt(c, "limit"),
		Page:           queryInt(c, "page"),
		HomeownersOnly: c.Query("homeownersOnly") == "true",
		ProjectID:      c.Query("projectId"),
		SortBy:         c.Query("sortBy"),
		SortDir:        c.Query("sortDir"),
	})
	if err != nil {
		h.internalError(c, "Failed to fetch prospects", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateProspectStatus handles PATCH|POST /api/v1/dashboard/prospects/status
func (h *Handler) UpdateProspectStatus(c *gin.Context) {
	var req domain.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	prospect, err := h.dashboard.UpdateProspectStatus(c.Request.Context(), principal(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value", "validStatuses": domain.ProspectStatuses})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "prospectId is required"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prospect not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			h.internalError(c, "Failed to update prospect status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"prospect": gin.H{"id": prospect.ID, "status": prospect.Status},
	})
}

// ListProjects handles GET /api/v1/dashboard/projects
func (h *Handler) ListProjects(c *gin.Context) {
	page, err := h.dashboard.ListProjects(c.Request.Context(), principal(c), usecase.ProjectListParams{
		Limit:        queryInt(c, "limit"),
		Page:         queryInt(c, "page"),
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		Tag:          c.Query("tag"),
		HasProspects: c.Query("hasProspects"),
		SortBy:       c.Query("sortBy"),
		SortDir:      c.Query("sortDir"),
	})
	if err != nil {
		h.internalError(c, "Failed to fetch projects", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListTags handles GET /api/v1/dashboard/tags
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.dashboard.ListTags(c.Request.Context(), principal(c))
	if err != nil {
		h.internalError(c, "Failed to fetch tags", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(tags), "tags": tags})
}

// Stats handles GET /api/v1/dashboard/stats?type=&days=
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context(), principal(c), c.Query("type"), queryInt(c, "days"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Use: leads, projects, or prospects"})
			return
		}
		h.internalError(c, "Failed to fetch stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Settings handles GET /api/v1/dashboard/settings
func (h *Handler) Settings(c *gin.Context) {
	settings, err := h.dashboard.Settings(principal(c))
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant configuration not found"})
			return
		}
		h.internalError(c, "Failed to fetch settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
