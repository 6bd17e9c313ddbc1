package domain

// TenantColors is a tenant's brand palette
type TenantColors struct {
	Primary        string `json:"primary"`
	PrimaryHover   string `json:"primaryHover"`
	Background     string `json:"background"`
	LogoBackground string `json:"logoBackground"`
}

// Tenant is one roofing contractor served by the platform.
// TokenEnv names the environment variable holding the CompanyCam token; the token itself never leaves the server.
type Tenant struct {
	Slug         string       `json:"slug"`
	Name         string       `json:"name"`
	Domain       string       `json:"domain,omitempty"`
	Logo         string       `json:"logo,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Colors       TenantColors `json:"colors"`
	PageTitle    string       `json:"pageTitle,omitempty"`
	PageSubtitle string       `json:"pageSubtitle,omitempty"`
	Heading      string       `json:"heading,omitempty"`
	Subheading   string       `json:"subheading,omitempty"`
	OGImage      string       `json:"ogImage,omitempty"`
	TokenEnv     string       `json:"-"`
}
