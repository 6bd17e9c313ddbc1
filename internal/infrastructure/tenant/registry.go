// Package tenant loads the contractor registry from tenants.yml.
package tenant

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roofleads/backend/internal/domain"
)

// Registry validation errors.
var (
	ErrNoTenants       = errors.New("at least one tenant is required")
	ErrMissingName     = errors.New("name is required")
	ErrMissingTokenEnv = errors.New("companycam_api_token_env is required")
	ErrSlugMismatch    = errors.New("slug must match the tenant key")
)

type fileFormat struct {
	Tenants map[string]tenantEntry `yaml:"tenants"`
}

type colorsEntry struct {
	Primary        string `yaml:"primary"`
	PrimaryHover   string `yaml:"primary_hover"`
	Background     string `yaml:"background"`
	LogoBackground string `yaml:"logo_background"`
}

type tenantEntry struct {
	Name         string      `yaml:"name"`
	Slug         string      `yaml:"slug"`
	Domain       string      `yaml:"domain"`
	Logo         string      `yaml:"logo"`
	Phone        string      `yaml:"phone"`
	Colors       colorsEntry `yaml:"colors"`
	TokenEnv     string      `yaml:"companycam_api_token_env"`
	PageTitle    string      `yaml:"page_title"`
	PageSubtitle string      `yaml:"page_subtitle"`
	Heading      string      `yaml:"heading"`
	Subheading   string      `yaml:"subheading"`
	OGImage      string      `yaml:"og_image"`
}

// Registry is an immutable, read-only tenant directory
type Registry struct {
	tenants   map[string]*domain.Tenant
	names     []string
	lookupEnv func(string) (string, bool)
}

// LoadFile reads and validates a tenants.yml file
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenants file: %w", err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse builds a registry from YAML
func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tenants: %w", err)
	}

	if len(f.Tenants) == 0 {
		return nil, ErrNoTenants
	}

	tenants := make([]domain.Tenant, 0, len(f.Tenants))
	for key, entry := range f.Tenants {
		if err := entry.validate(key); err != nil {
			return nil, fmt.Errorf("tenant %q: %w", key, err)
		}
		tenants = append(tenants, entry.toDomain(key))
	}

	return New(tenants), nil
}

// New builds a registry from already-validated tenants, keyed by slug
func New(tenants []domain.Tenant) *Registry {
	r := &Registry{
		tenants:   make(map[string]*domain.Tenant, len(tenants)),
		lookupEnv: os.LookupEnv,
	}
	for i := range tenants {
		t := tenants[i]
		r.tenants[t.Slug] = &t
		r.names = append(r.names, t.Slug)
	}
	sort.Strings(r.names)
	return r
}

// WithEnv replaces the environment lookup used to resolve credentials
func (r *Registry) WithEnv(lookup func(string) (string, bool)) *Registry {
	r.lookupEnv = lookup
	return r
}

// Lookup returns the tenant with the given key
func (r *Registry) Lookup(key string) (*domain.Tenant, error) {
	t, ok := r.tenants[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTenantNotFound, key)
	}
	return t, nil
}

// Names returns all tenant keys, sorted
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Credential resolves the tenant's CompanyCam token from the environment
func (r *Registry) Credential(t *domain.Tenant) (string, error) {
	if t.TokenEnv == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingCredential, t.Slug)
	}
	token, ok := r.lookupEnv(t.TokenEnv)
	if !ok || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: %s (%s is not set)", domain.ErrMissingCredential, t.Slug, t.TokenEnv)
	}
	return strings.TrimSpace(token), nil
}

func (e tenantEntry) validate(key string) error {
	if e.Name == "" {
		return ErrMissingName
	}
	if e.TokenEnv == "" {
		return ErrMissingTokenEnv
	}
	if e.Slug != "" && e.Slug != key {
		return ErrSlugMismatch
	}
	return nil
}

func (e tenantEntry) toDomain(key string) domain.Tenant {
	return domain.Tenant{
		Slug:   key,
		Name:   e.Name,
		Domain: e.Domain,
		Logo:   e.Logo,
		Phone:  e.Phone,
		Colors: domain.TenantColors{
			Primary:        e.Colors.Primary,
			PrimaryHover:   e.Colors.PrimaryHover,
			Background:     e.Colors.Background,
			LogoBackground: e.Colors.LogoBackground,
		},
		PageTitle:    e.PageTitle,
		PageSubtitle: e.PageSubtitle,
		Heading:      e.Heading,
		Subheading:   e.Subheading,
		OGImage:      e.OGImage,
		TokenEnv:     e.TokenEnv,
	}
}
