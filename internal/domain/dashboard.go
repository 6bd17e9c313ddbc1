package domain

// ProspectPage is one page of the dashboard prospect list
type ProspectPage struct {
	Count      int        `json:"count"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Homeowners int        `json:"homeowners"`
	Prospects  []Prospect `json:"prospects"`
}

// ProjectPage is one page of the dashboard project list
type ProjectPage struct {
	Count      int             `json:"count"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Projects   []ProjectRecord `json:"projects"`
}

// ActivityStats is a per-day count series, oldest day first
type ActivityStats struct {
	Type  StatsEntity  `json:"type"`
	Days  int          `json:"days"`
	Total int          `json:"total"`
	Data  []DailyCount `json:"data"`
}

// TenantSettings is what a business user may see of their tenant's configuration
type TenantSettings struct {
	Domain string `json:"domain"`
	Logo   string `json:"logo"`
	APIKey string `json:"apiKey"` // masked
	Slug   string `json:"slug"`
}
