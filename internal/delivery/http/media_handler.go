package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofleads/backend/internal/domain"
)

// Photos handles GET /api/v1/photos?tenant=&projectId=
func (h *Handler) Photos(c *gin.Context) {
	tenant := c.Query("tenant")
	projectID := c.Query("projectId")
	if tenant == "" || projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tenant or projectId parameter"})
		return
	}

	gallery, t, err := h.gallery.Gallery(c.Request.Context(), tenant, projectID)
	if err != nil {
		var statusErr *domain.UpstreamStatusError
		switch {
		case errors.Is(err, domain.ErrTenantNotFound):
			h.tenantNotFound(c, tenant)
		case errors.Is(err, domain.ErrMissingCredential):
			h.internalError(c, "API token not configured", err)
		case errors.As(err, &statusErr):
			code := statusErr.StatusCode
			if code < 400 || code > 599 {
				code = http.StatusBadGateway
			}
			c.JSON(code, gin.H{"error": "Failed to fetch project"})
		default:
			h.internalError(c, "Failed to fetch photos", err)
		}
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, gin.H{
		"project": gallery.Project,
		"photos":  gallery.Media,
		"tenant":  t,
	})
}

// StreetView handles GET /api/v1/streetview?address=
func (h *Handler) StreetView(c *gin.Context) {
	view, err := h.streetView.Lookup(c.Request.Context(), c.Query("address"))
	if err != nil {
		if errors.Is(err, domain.ErrAddressParameterMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing address parameter"})
			return
		}
		h.internalError(c, "Street View lookup failed", err)
		return
	}

	if view.Available {
		c.Header("Cache-Control", "public, max-age=86400")
	}
	c.JSON(http.StatusOK, view)
}
