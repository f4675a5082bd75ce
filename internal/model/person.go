package model

import "strings"

// LockedEmailSentinel is the placeholder Apollo returns when an email exists
// but has not been revealed for the calling account.
const LockedEmailSentinel = "email_not_unlocked"

// IsPlaceholderEmail reports whether email is empty or carries the locked
// sentinel, in either bare or domain-suffixed form.
func IsPlaceholderEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email == "" || strings.Contains(email, LockedEmailSentinel)
}

// PhoneNumber is a single phone number as delivered by the provider.
type PhoneNumber struct {
	RawNumber       string `json:"raw_number"`
	SanitizedNumber string `json:"sanitized_number"`
	Type            string `json:"type"`
}

// Organization is the employer attached to a provider person record.
type Organization struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`
	PrimaryDomain  string `json:"primary_domain,omitempty"`
	Industry       string `json:"industry,omitempty"`
	EmployeeCount  int    `json:"employee_count,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Country        string `json:"country,omitempty"`
	ShortDesc      string `json:"short_description,omitempty"`
	FoundedYear    int    `json:"founded_year,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	FundingStage   string `json:"latest_funding_stage,omitempty"`
	PubliclyTraded string `json:"publicly_traded_symbol,omitempty"`
}

// Person is the normalized person record produced by the provider client.
type Person struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"first_name,omitempty"`
	LastName       string        `json:"last_name,omitempty"`
	Name           string        `json:"name,omitempty"`
	Title          string        `json:"title,omitempty"`
	Email          string        `json:"email,omitempty"`
	PersonalEmails []string      `json:"personal_emails,omitempty"`
	PhoneNumbers   []PhoneNumber `json:"phone_numbers,omitempty"`
	LinkedInURL    string        `json:"linkedin_url,omitempty"`
	TwitterURL     string        `json:"twitter_url,omitempty"`
	GitHubURL      string        `json:"github_url,omitempty"`
	FacebookURL    string        `json:"facebook_url,omitempty"`
	PhotoURL       string        `json:"photo_url,omitempty"`
	City           string        `json:"city,omitempty"`
	State          string        `json:"state,omitempty"`
	Country        string        `json:"country,omitempty"`
	Organization   *Organization `json:"organization,omitempty"`
}

// DisplayName returns the full name, falling back to first + last.
func (p *Person) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Location formats "City, State" when both are known.
func (p *Person) Location() string {
	if p == nil || p.City == "" || p.State == "" {
		return ""
	}
	return p.City + ", " + p.State
}

// EnrichParams are the partial identifiers used to look a person up.
type EnrichParams struct {
	ID               string `json:"id,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Domain           string `json:"domain,omitempty"`
}

// Normalize trims whitespace from every field.
func (p EnrichParams) Normalize() EnrichParams {
	p.ID = strings.TrimSpace(p.ID)
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.OrganizationName = strings.TrimSpace(p.OrganizationName)
	p.Email = strings.TrimSpace(p.Email)
	p.Domain = strings.TrimSpace(p.Domain)
	return p
}

// HasPersonData reports whether a name or email is present.
func (p EnrichParams) HasPersonData() bool {
	return p.FirstName != "" || p.LastName != "" || p.Email != ""
}

// HasCompanyData reports whether an organization name or domain is present.
func (p EnrichParams) HasCompanyData() bool {
	return p.OrganizationName != "" || p.Domain != ""
}

// HasFullName reports whether both first and last name are known.
func (p EnrichParams) HasFullName() bool {
	return p.FirstName != "" && p.LastName != ""
}
