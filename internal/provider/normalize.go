package provider

import (
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/pkg/apollo"
)

func toPerson(p *apollo.Person) *model.Person {
	if p == nil {
		return nil
	}
	out := &model.Person{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Name:           p.Name,
		Title:          p.Title,
		Email:          p.Email,
		PersonalEmails: append([]string(nil), p.PersonalEmails...),
		PhoneNumbers:   ToPhoneNumbers(p.PhoneNumbers),
		LinkedInURL:    p.LinkedInURL,
		TwitterURL:     p.TwitterURL,
		GitHubURL:      p.GitHubURL,
		FacebookURL:    p.FacebookURL,
		PhotoURL:       p.PhotoURL,
		City:           p.City,
		State:          p.State,
		Country:        p.Country,
		Organization:   toOrganization(p.Organization),
	}
	if out.Name == "" {
		out.Name = out.DisplayName()
	}
	return out
}

func toOrganization(o *apollo.Organization) *model.Organization {
	if o == nil {
		return nil
	}
	employees := o.EmployeeCount
	if employees == 0 {
		employees = o.EstimatedNumEmployee
	}
	return &model.Organization{
		ID:             o.ID,
		Name:           o.Name,
		WebsiteURL:     o.WebsiteURL,
		PrimaryDomain:  o.PrimaryDomain,
		Industry:       o.Industry,
		EmployeeCount:  employees,
		City:           o.City,
		State:          o.State,
		Country:        o.Country,
		ShortDesc:      o.ShortDescription,
		FoundedYear:    o.FoundedYear,
		LinkedInURL:    o.LinkedInURL,
		FundingStage:   o.LatestFundingStage,
		PubliclyTraded: o.PubliclyTraded,
	}
}

// ToPhoneNumbers converts Apollo phone entries to model values. Entries
// without any number are dropped.
func ToPhoneNumbers(in []apollo.PhoneNumber) []model.PhoneNumber {
	out := make([]model.PhoneNumber, 0, len(in))
	for _, p := range in {
		if p.RawNumber == "" && p.SanitizedNumber == "" {
			continue
		}
		typ := p.Type
		if typ == "" {
			typ = "unknown"
		}
		out = append(out, model.PhoneNumber{
			RawNumber:       p.RawNumber,
			SanitizedNumber: p.SanitizedNumber,
			Type:            typ,
		})
	}
	return out
}
