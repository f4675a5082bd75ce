package apollo

import "encoding/json"

// MatchRequest is the body for POST /people/match.
type MatchRequest struct {
	ID                   string `json:"id,omitempty"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	OrganizationName     string `json:"organization_name,omitempty"`
	Email                string `json:"email,omitempty"`
	Domain               string `json:"domain,omitempty"`
	RevealPersonalEmails bool   `json:"reveal_personal_emails"`
	RevealPhoneNumber    bool   `json:"reveal_phone_number,omitempty"`
	WebhookURL           string `json:"webhook_url,omitempty"`
}

// MatchResponse is the response from POST /people/match.
type MatchResponse struct {
	Person *Person `json:"person"`
}

// SearchRequest is the body for POST /mixed_people/search.
type SearchRequest struct {
	OrganizationNames    []string `json:"organization_names,omitempty"`
	OrganizationDomains  string   `json:"q_organization_domains,omitempty"`
	PersonTitles         []string `json:"person_titles,omitempty"`
	Keywords             string   `json:"q_keywords,omitempty"`
	Page                 int      `json:"page,omitempty"`
	PerPage              int      `json:"per_page,omitempty"`
	RevealPersonalEmails bool     `json:"reveal_personal_emails,omitempty"`
	RevealPhoneNumber    bool     `json:"reveal_phone_number,omitempty"`
	WebhookURL           string   `json:"webhook_url,omitempty"`
}

// SearchResponse is the response from POST /mixed_people/search.
type SearchResponse struct {
	People     []Person   `json:"people"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes a search result page.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// EmailFinderRequest is the body for POST /email_finder.
type EmailFinderRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Domain           string `json:"domain,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// EmailFinderResponse is the response from POST /email_finder.
type EmailFinderResponse struct {
	Email      string  `json:"email"`
	Confidence float64 `json:"confidence"`
}

// Person is a person record as Apollo returns it.
type Person struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Email          string        `json:"email"`
	PersonalEmails []string      `json:"personal_emails"`
	PhoneNumbers   []PhoneNumber `json:"phone_numbers"`
	LinkedInURL    string        `json:"linkedin_url"`
	TwitterURL     string        `json:"twitter_url"`
	GitHubURL      string        `json:"github_url"`
	FacebookURL    string        `json:"facebook_url"`
	PhotoURL       string        `json:"photo_url"`
	City           string        `json:"city"`
	State          string        `json:"state"`
	Country        string        `json:"country"`
	Organization   *Organization `json:"organization"`
}

// Organization is an organization record as Apollo returns it.
type Organization struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	WebsiteURL           string `json:"website_url"`
	PrimaryDomain        string `json:"primary_domain"`
	Industry             string `json:"industry"`
	EstimatedNumEmployee int    `json:"estimated_num_employees"`
	EmployeeCount        int    `json:"employee_count"`
	ShortDescription     string `json:"short_description"`
	FoundedYear          int    `json:"founded_year"`
	LinkedInURL          string `json:"linkedin_url"`
	LatestFundingStage   string `json:"latest_funding_stage"`
	PubliclyTraded       string `json:"publicly_traded_symbol"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Country              string `json:"country"`
}

// OrganizationResponse is the response from GET /organizations/enrich.
type OrganizationResponse struct {
	Organization *Organization `json:"organization"`
}

// PhoneNumber accepts both snake_case and camelCase spellings, and both
// type_cd and type, since Apollo is inconsistent across endpoints and
// webhook deliveries.
type PhoneNumber struct {
	RawNumber       string `json:"raw_number"`
	SanitizedNumber string `json:"sanitized_number"`
	Type            string `json:"type"`
}

// UnmarshalJSON folds the alternate field spellings into PhoneNumber.
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	var raw struct {
		RawNumber          string `json:"raw_number"`
		RawNumberAlt       string `json:"rawNumber"`
		SanitizedNumber    string `json:"sanitized_number"`
		SanitizedNumberAlt string `json:"sanitizedNumber"`
		TypeCD             string `json:"type_cd"`
		Type               string `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.RawNumber = firstNonEmpty(raw.RawNumber, raw.RawNumberAlt)
	p.SanitizedNumber = firstNonEmpty(raw.SanitizedNumber, raw.SanitizedNumberAlt)
	p.Type = firstNonEmpty(raw.TypeCD, raw.Type, "unknown")
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
