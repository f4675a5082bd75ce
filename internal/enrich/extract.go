package enrich

import (
	"strings"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// ExtractEmail picks the primary email unless it is a placeholder, then the
// first usable personal email.
func ExtractEmail(p *model.Person) (string, model.EmailSource) {
	if p == nil {
		return "", model.EmailFromNone
	}
	if !model.IsPlaceholderEmail(p.Email) {
		return strings.TrimSpace(p.Email), model.EmailFromAPIResponse
	}
	for _, e := range p.PersonalEmails {
		if !model.IsPlaceholderEmail(e) {
			return strings.TrimSpace(e), model.EmailFromPersonalEmail
		}
	}
	return "", model.EmailFromNone
}

// ExtractPhones returns a copy of the person's synchronous phone list, never
// nil.
func ExtractPhones(p *model.Person) []model.PhoneNumber {
	if p == nil || len(p.PhoneNumbers) == 0 {
		return []model.PhoneNumber{}
	}
	return append([]model.PhoneNumber(nil), p.PhoneNumbers...)
}

// BestPhone ranks mobile/cell over work/office over whatever comes first,
// independent of list order.
func BestPhone(phones []model.PhoneNumber) string {
	if len(phones) == 0 {
		return ""
	}
	if p, ok := findType(phones, "mobile", "cell"); ok {
		return number(p)
	}
	if p, ok := findType(phones, "work", "office"); ok {
		return number(p)
	}
	return number(phones[0])
}

func findType(phones []model.PhoneNumber, kinds ...string) (model.PhoneNumber, bool) {
	for _, p := range phones {
		t := strings.ToLower(p.Type)
		for _, k := range kinds {
			if strings.Contains(t, k) {
				return p, true
			}
		}
	}
	return model.PhoneNumber{}, false
}

func number(p model.PhoneNumber) string {
	if p.SanitizedNumber != "" {
		return p.SanitizedNumber
	}
	return p.RawNumber
}
