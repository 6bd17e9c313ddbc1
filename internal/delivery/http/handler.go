package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofleads/backend/internal/domain"
	"github.com/roofleads/backend/internal/usecase"
)

// Version is reported by the health check
const Version = "1.0.0"

// AddressSearcher resolves an address to a tenant project
type AddressSearcher interface {
	Resolve(ctx context.Context, tenant, address string) (*domain.MatchResult, error)
}

// LeadCapturer stores funnel submissions and sign-ups
type LeadCapturer interface {
	CreateLead(ctx context.Context, req *domain.LeadRequest) (*domain.Lead, error)
	CreateFlowLead(ctx context.Context, req *domain.FlowLeadRequest) (*domain.Lead, error)
	CreateBusinessUser(ctx context.Context, req *domain.BusinessUserRequest) (*domain.BusinessUser, error)
}

// Authenticator signs users in and verifies their tokens
type Authenticator interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error)
	Authenticate(token string) (*domain.Principal, error)
}

// Dashboard serves the authenticated dashboard reads and writes
type Dashboard interface {
	ListLeads(ctx context.Context, p *domain.Principal, limit int) ([]domain.Lead, error)
	ListBusinessUsers(ctx context.Context, limit int) ([]domain.BusinessUser, error)
	ListProspects(ctx context.Context, p *domain.Principal, params usecase.ProspectListParams) (*domain.ProspectPage, error)
	UpdateProspectStatus(ctx context.Context, p *domain.Principal, req *domain.StatusUpdateRequest) (*domain.Prospect, error)
	ListProjects(ctx context.Context, p *domain.Principal, params usecase.ProjectListParams) (*domain.ProjectPage, error)
	ListTags(ctx context.Context, p *domain.Principal) ([]domain.Label, error)
	Stats(ctx context.Context, p *domain.Principal, entity string, days int) (*domain.ActivityStats, error)
	Settings(p *domain.Principal) (*domain.TenantSettings, error)
}

// GalleryLoader loads a project's media
type GalleryLoader interface {
	Gallery(ctx context.Context, tenant, projectID string) (*domain.Gallery, *domain.Tenant, error)
}

// StreetViewer looks up street-level imagery for an address
type StreetViewer interface {
	Lookup(ctx context.Context, address string) (*domain.StreetView, error)
}

// Services are the use cases behind the HTTP API
type Services struct {
	Search     AddressSearcher
	Leads      LeadCapturer
	Auth       Authenticator
	Dashboard  Dashboard
	Gallery    GalleryLoader
	StreetView StreetViewer
	Tenants    domain.TenantDirectory
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search     AddressSearcher
	leads      LeadCapturer
	auth       Authenticator
	dashboard  Dashboard
	gallery    GalleryLoader
	streetView StreetViewer
	tenants    domain.TenantDirectory
	logger     *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, logger *slog.Logger) *Handler {
	return &Handler{
		search:     services.Search,
		leads:      services.Leads,
		auth:       services.Auth,
		dashboard:  services.Dashboard,
		gallery:    services.Gallery,
		streetView: services.StreetView,
		tenants:    services.Tenants,
		logger:     logger.With("component", "http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "roofleads-backend",
		"version": Version,
	})
}

// MethodNotAllowed answers routes registered for other methods
func (h *Handler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// NotFound answers unknown routes
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// tenantNotFound reports an unknown tenant together with the known ones
func (h *Handler) tenantNotFound(c *gin.Context, tenant string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     "Tenant not found",
		"tenant":    tenant,
		"available": h.tenants.Names(),
	})
}

// missingFields answers a request without its required fields, listing them
func missingFields(c *gin.Context, err error) bool {
	var missing *domain.MissingFieldsError
	if !errors.As(err, &missing) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":    "Missing required fields",
		"required": missing.Required,
	})
	return true
}

// internalError logs err and answers 500 with message and the error text
func (h *Handler) internalError(c *gin.Context, message string, err error) {
	h.logger.Error(message, "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
