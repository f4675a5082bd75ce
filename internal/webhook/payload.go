// Package webhook decodes Apollo phone-reveal deliveries and reconciles them
// against tracked enrichment requests.
package webhook

import (
	"encoding/json"
	"strings"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/provider"
	"github.com/shreyputexas/equitle-brain-v1-sub005/pkg/apollo"
)

// Kind identifies which payload schema a delivery matched.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindPeople
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindPeople:
		return "people"
	case KindLegacy:
		return "legacy"
	default:
		return "unrecognized"
	}
}

// Person is one delivered person entry.
type Person struct {
	ID           string
	Name         string
	FirstName    string
	LastName     string
	LinkedInURL  string
	PhoneNumbers []model.PhoneNumber
}

// DisplayName returns the full name, falling back to first + last.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Payload is a decoded delivery. People is empty for KindUnrecognized and
// holds exactly one entry for KindLegacy.
type Payload struct {
	Kind   Kind
	Status string
	People []Person
	// RequestID is the legacy enrichment_request_id, when sent.
	RequestID string
}

type wirePerson struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	LinkedInURL  string              `json:"linkedin_url"`
	PhoneNumbers []apollo.PhoneNumber `json:"phone_numbers"`
}

type peopleWire struct {
	Status string        `json:"status"`
	People *[]wirePerson `json:"people"`
}

type legacyWire struct {
	PersonID     string                `json:"person_id"`
	Person       *wirePerson           `json:"person"`
	PhoneNumbers *[]apollo.PhoneNumber `json:"phone_numbers"`
	RequestID    string                `json:"enrichment_request_id"`
}

// Decode classifies body. It tries the people[] schema first, then the legacy
// top-level schema, and otherwise reports KindUnrecognized. It never guesses
// at other field names.
func Decode(body []byte) Payload {
	var pw peopleWire
	if err := json.Unmarshal(body, &pw); err == nil && pw.People != nil {
		out := Payload{Kind: KindPeople, Status: pw.Status, People: make([]Person, 0, len(*pw.People))}
		for _, wp := range *pw.People {
			out.People = append(out.People, fromWire(wp))
		}
		return out
	}

	var lw legacyWire
	if err := json.Unmarshal(body, &lw); err == nil && lw.PhoneNumbers != nil {
		p := Person{ID: lw.PersonID, PhoneNumbers: provider.ToPhoneNumbers(*lw.PhoneNumbers)}
		if lw.Person != nil {
			p.Name = lw.Person.Name
			p.FirstName = lw.Person.FirstName
			p.LastName = lw.Person.LastName
			p.LinkedInURL = lw.Person.LinkedInURL
			if p.ID == "" {
				p.ID = lw.Person.ID
			}
		}
		return Payload{Kind: KindLegacy, People: []Person{p}, RequestID: lw.RequestID}
	}

	return Payload{Kind: KindUnrecognized}
}

func fromWire(wp wirePerson) Person {
	return Person{
		ID:           strings.TrimSpace(wp.ID),
		Name:         wp.Name,
		FirstName:    wp.FirstName,
		LastName:     wp.LastName,
		LinkedInURL:  wp.LinkedInURL,
		PhoneNumbers: provider.ToPhoneNumbers(wp.PhoneNumbers),
	}
}
