package model

import "time"

// RequestStatus is the lifecycle state of a tracked enrichment request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
)

// EnrichmentRequest records which user and contact are waiting on webhook
// phone data for a provider person id.
type EnrichmentRequest struct {
	PersonID   string        `json:"person_id"`
	PersonName string        `json:"person_name"`
	UserID     string        `json:"user_id"`
	ContactID  string        `json:"contact_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	Status     RequestStatus `json:"status"`
}

// CorrelationEntry holds phone numbers delivered by webhook for an identifier.
type CorrelationEntry struct {
	Identifier   string        `json:"identifier"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers"`
	PersonID     string        `json:"person_id,omitempty"`
	PersonName   string        `json:"person_name,omitempty"`
	RecordedAt   time.Time     `json:"recorded_at"`
}

// EmailSource tags where the extracted email came from.
type EmailSource string

const (
	EmailFromAPIResponse   EmailSource = "api_response"
	EmailFromPersonalEmail EmailSource = "personal_emails"
	EmailFromWebhook       EmailSource = "webhook"
	EmailFromNone          EmailSource = "none"
)

// PhoneSource tags where the extracted phone came from.
type PhoneSource string

const (
	PhoneFromAPIResponse PhoneSource = "api_response"
	PhoneFromWebhook     PhoneSource = "webhook"
	PhoneFromNone        PhoneSource = "none"
)

// ResultSource groups the email and phone provenance tags.
type ResultSource struct {
	Email EmailSource `json:"email"`
	Phone PhoneSource `json:"phone"`
}

// EnrichResult is the orchestrator's best-effort answer for one person.
type EnrichResult struct {
	Person         *Person       `json:"person"`
	Email          string        `json:"email,omitempty"`
	Phone          string        `json:"phone,omitempty"`
	PhoneNumbers   []PhoneNumber `json:"phone_numbers"`
	Source         ResultSource  `json:"source"`
	WebhookPending bool          `json:"webhook_pending"`
}

// EmptyResult is returned when no person could be resolved.
func EmptyResult() EnrichResult {
	return EnrichResult{
		PhoneNumbers: []PhoneNumber{},
		Source:       ResultSource{Email: EmailFromNone, Phone: PhoneFromNone},
	}
}

// BatchItem pairs an input with its enrichment outcome.
type BatchItem struct {
	Original EnrichParams `json:"original"`
	Enriched EnrichResult `json:"enriched"`
}

// ProviderBatchItem is one result of sequential provider batch enrichment.
type ProviderBatchItem struct {
	Original EnrichParams `json:"original"`
	Enriched *Person      `json:"enriched"`
	Error    string       `json:"error,omitempty"`
}
