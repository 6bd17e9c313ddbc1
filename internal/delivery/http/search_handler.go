package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofleads/backend/internal/domain"
)

// searchProject is the project summary shown by the address lookup widget
type searchProject struct {
	Address    string             `json:"address"`
	City       string             `json:"city"`
	State      string             `json:"state"`
	URL        string             `json:"url"`
	PhotoCount int                `json:"photo_count"`
	Photos     []domain.Thumbnail `json:"photos"`
}

// Search handles GET /search?address=&tenant=
func (h *Handler) Search(c *gin.Context) {
	tenant := c.Query("tenant")
	address := c.Query("address")

	result, err := h.search.Resolve(c.Request.Context(), tenant, address)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAddressParameterMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address parameter required"})
		case errors.Is(err, domain.ErrTenantParameterMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant parameter required"})
		case errors.Is(err, domain.ErrTenantNotFound):
			h.tenantNotFound(c, tenant)
		default:
			h.internalError(c, "Search failed", err)
		}
		return
	}

	if !result.Found {
		c.JSON(http.StatusOK, gin.H{
			"found":   false,
			"message": "No project found for this address",
		})
		return
	}

	photos := result.Photos
	if photos == nil {
		photos = []domain.Thumbnail{}
	}

	p := result.Project
	c.JSON(http.StatusOK, gin.H{
		"found": true,
		"project": searchProject{
			Address:    p.StreetAddress,
			City:       p.City,
			State:      p.State,
			URL:        p.PublicURL,
			PhotoCount: p.PhotoCount,
			Photos:     photos,
		},
	})
}

// GetTenant handles GET /api/v1/tenants/:tenant and returns the tenant's display data
func (h *Handler) GetTenant(c *gin.Context) {
	key := c.Param("tenant")

	tenant, err := h.tenants.Lookup(key)
	if err != nil {
		h.tenantNotFound(c, key)
		return
	}

	c.JSON(http.StatusOK, tenant)
}
