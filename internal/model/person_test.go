package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholderEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"email_not_unlocked", true},
		{"email_not_unlocked@domain.com", true},
		{"jane@acme.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsPlaceholderEmail(tt.email))
		})
	}
}

func TestEnrichParams_Predicates(t *testing.T) {
	t.Parallel()

	p := EnrichParams{FirstName: " Jane ", OrganizationName: "Acme"}.Normalize()
	assert.Equal(t, "Jane", p.FirstName)
	assert.True(t, p.HasPersonData())
	assert.True(t, p.HasCompanyData())
	assert.False(t, p.HasFullName())

	orgOnly := EnrichParams{Domain: "acme.com"}
	assert.False(t, orgOnly.HasPersonData())
	assert.True(t, orgOnly.HasCompanyData())

	assert.False(t, EnrichParams{}.HasPersonData())
	assert.False(t, EnrichParams{}.HasCompanyData())
}

func TestPerson_DisplayNameAndLocation(t *testing.T) {
	t.Parallel()

	var nilPerson *Person
	assert.Empty(t, nilPerson.DisplayName())
	assert.Empty(t, nilPerson.Location())

	p := &Person{FirstName: "Jane", LastName: "Doe", City: "Austin", State: "TX"}
	assert.Equal(t, "Jane Doe", p.DisplayName())
	assert.Equal(t, "Austin, TX", p.Location())

	p.Name = "Dr. Jane Doe"
	assert.Equal(t, "Dr. Jane Doe", p.DisplayName())
}

func TestEmptyResult(t *testing.T) {
	t.Parallel()

	r := EmptyResult()
	assert.Nil(t, r.Person)
	assert.Empty(t, r.PhoneNumbers)
	assert.NotNil(t, r.PhoneNumbers)
	assert.Equal(t, EmailFromNone, r.Source.Email)
	assert.Equal(t, PhoneFromNone, r.Source.Phone)
	assert.False(t, r.WebhookPending)
}

func TestContactUpdate_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, ContactUpdate{}.IsEmpty())
	assert.False(t, ContactUpdate{Phone: "+15550001111"}.IsEmpty())
	assert.False(t, ContactUpdate{ProviderPersonID: "p1"}.IsEmpty())
}
