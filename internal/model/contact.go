package model

import "time"

// PhoneStatus mirrors the phone-number state shown on a CRM contact.
type PhoneStatus string

const (
	PhoneAvailable   PhoneStatus = "available"
	PhoneFetching    PhoneStatus = "fetching"
	PhoneUnavailable PhoneStatus = "unavailable"
)

// Contact is the subset of a downstream CRM contact this service touches.
type Contact struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	Name              string      `json:"name"`
	Email             string      `json:"email,omitempty"`
	Company           string      `json:"company,omitempty"`
	Title             string      `json:"title,omitempty"`
	Phone             string      `json:"phone,omitempty"`
	PhoneNumberStatus PhoneStatus `json:"phone_number_status,omitempty"`
	LinkedInURL       string      `json:"linkedin_url,omitempty"`
	ProviderPersonID  string      `json:"provider_person_id,omitempty"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ContactUpdate is a partial write to a contact. Empty fields are left
// untouched. The webhook reconciler only sets the phone fields and LinkedIn.
type ContactUpdate struct {
	Phone             string      `json:"phone,omitempty"`
	PhoneNumberStatus PhoneStatus `json:"phoneNumberStatus,omitempty"`
	LinkedInURL       string      `json:"linkedinUrl,omitempty"`
	Title             string      `json:"title,omitempty"`
	Company           string      `json:"company,omitempty"`
	ProviderPersonID  string      `json:"providerPersonId,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ContactUpdate) IsEmpty() bool {
	return u == ContactUpdate{}
}
