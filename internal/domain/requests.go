package domain

// LeadRequest is the contact form behind a project gallery
type LeadRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	Tenant    string `json:"tenant"`
}

// FlowLeadRequest is a completed quiz funnel submission.
// QualifyScore and UrgencyLevel are optional; the server scores FlowData when they are absent.
type FlowLeadRequest struct {
	Tenant       string      `json:"tenant"`
	FlowType     string      `json:"flowType"`
	FlowSlug     string      `json:"flowSlug"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address,omitempty"`
	FlowData     FlowAnswers `json:"flowData,omitempty"`
	QualifyScore string      `json:"qualifyScore,omitempty"`
	UrgencyLevel string      `json:"urgencyLevel,omitempty"`
	UTMSource    string      `json:"utmSource,omitempty"`
	UTMMedium    string      `json:"utmMedium,omitempty"`
	UTMCampaign  string      `json:"utmCampaign,omitempty"`
}

// BusinessUserRequest is a contractor sign-up
type BusinessUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Slug        string `json:"slug,omitempty"`
}

// LoginRequest carries dashboard credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is a signed token plus the account it belongs to
type LoginResult struct {
	Token string        `json:"token"`
	User  *BusinessUser `json:"user"`
}

// StatusUpdateRequest sets or clears a prospect's call status. An empty status clears it.
type StatusUpdateRequest struct {
	ProspectID string  `json:"prospectId"`
	Status     *string `json:"status"`
}

// ProspectRequest records a contact found for a synced project
type ProspectRequest struct {
	Tenant      string `json:"tenant"`
	ProjectID   string `json:"projectId"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	IsHomeowner bool   `json:"isHomeowner"`
}
