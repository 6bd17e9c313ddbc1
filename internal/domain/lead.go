package domain

import (
	"slices"
	"time"
)

// Lead sources
const (
	LeadSourceGallery = "gallery"
	LeadSourceFlow    = "flow"
)

// Lead is a homeowner who submitted contact details through a funnel or gallery gate
type Lead struct {
	ID           string      `json:"id"`
	Tenant       string      `json:"tenant"`
	Source       string      `json:"source"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address,omitempty"`
	ProjectID    string      `json:"projectId,omitempty"`
	FlowType     string      `json:"flowType,omitempty"`
	FlowSlug     string      `json:"flowSlug,omitempty"`
	FlowData     FlowAnswers `json:"flowData,omitempty"`
	QualifyScore string      `json:"qualifyScore,omitempty"`
	UrgencyLevel string      `json:"urgencyLevel,omitempty"`
	UTMSource    string      `json:"utmSource,omitempty"`
	UTMMedium    string      `json:"utmMedium,omitempty"`
	UTMCampaign  string      `json:"utmCampaign,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// FlowAnswers are the raw quiz answers of a flow, keyed by question
type FlowAnswers map[string]any

// String returns a single-choice answer or "" when absent
func (a FlowAnswers) String(key string) string {
	if s, ok := a[key].(string); ok {
		return s
	}
	return ""
}

// List returns a multi-choice answer. A lone string counts as a one-element list.
func (a FlowAnswers) List(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// Assessment is the outcome of scoring a flow's answers
type Assessment struct {
	QualifyScore string            `json:"qualifyScore"`
	UrgencyLevel string            `json:"urgencyLevel"`
	Details      map[string]string `json:"details,omitempty"`
}

// Business user account states
const (
	BusinessUserPending  = "pending"
	BusinessUserApproved = "approved"
)

// BusinessUser is a contractor account with dashboard access.
// Slug ties the account to a tenant.
type BusinessUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CompanyName  string    `json:"companyName"`
	Slug         string    `json:"slug,omitempty"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the authenticated identity carried by a dashboard token
type Principal struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Slug        string `json:"slug"`
	CompanyName string `json:"companyName"`
}

// ProspectStatuses is the closed set of call outcomes a prospect can carry
var ProspectStatuses = []string{
	"left_voicemail",
	"hung_up",
	"wrong_number",
	"callback",
	"appointment_set",
	"bad_number",
	"follow_up_email_sent",
	"roof_replaced",
	"not_interested",
	"no_need",
	"no_answer",
	"wants_quote_phone",
	"follow_up_sms_sent",
}

// IsValidProspectStatus reports whether s is an allowed prospect status
func IsValidProspectStatus(s string) bool {
	return slices.Contains(ProspectStatuses, s)
}

// ProjectSummary is the address of the project a prospect belongs to
type ProjectSummary struct {
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

// Prospect is a property contact (owner or resident) linked to a synced project
type Prospect struct {
	ID          string          `json:"id"`
	Tenant      string          `json:"tenant"`
	ProjectID   string          `json:"projectId"`
	Name        string          `json:"name"`
	CompanyName string          `json:"companyName,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	IsHomeowner bool            `json:"isHomeowner"`
	IsDead      bool            `json:"isDead"`
	Status      *string         `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Project     *ProjectSummary `json:"project,omitempty"`
}

// ProspectQuery filters and pages the dashboard prospect list
type ProspectQuery struct {
	Tenant         string
	ProjectID      string
	HomeownersOnly bool
	SortBy         string
	SortDesc       bool
	Limit          int
	Offset         int
}

// StatsEntity selects what the dashboard activity chart counts
type StatsEntity string

const (
	StatsLeads     StatsEntity = "leads"
	StatsProjects  StatsEntity = "projects"
	StatsProspects StatsEntity = "prospects"
)

// DailyCount is one bar of the activity chart
type DailyCount struct {
	Date  string `json:"date"`  // 2006-01-02
	Label string `json:"label"` // M/D
	Count int    `json:"count"`
}
