package importer

import (
	"strings"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// columnAliases maps normalized header names to enrichment fields.
var columnAliases = map[string]string{
	"id":                "id",
	"contact_id":        "id",
	"first_name":        "first_name",
	"firstname":         "first_name",
	"first name":        "first_name",
	"last_name":         "last_name",
	"lastname":          "last_name",
	"last name":         "last_name",
	"company":           "organization_name",
	"company_name":      "organization_name",
	"organization":      "organization_name",
	"organization_name": "organization_name",
	"email":             "email",
	"domain":            "domain",
	"website":           "domain",
}

// MapRows treats the first row as headers and maps each following row onto
// EnrichParams. Unknown columns are ignored. Rows with no usable field are
// dropped.
func MapRows(rows [][]string) []model.EnrichParams {
	if len(rows) < 2 {
		return nil
	}

	fields := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		fields[i] = columnAliases[strings.ToLower(strings.TrimSpace(h))]
	}

	out := make([]model.EnrichParams, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var p model.EnrichParams
		for i, v := range row {
			if i >= len(fields) {
				break
			}
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			switch fields[i] {
			case "id":
				p.ID = v
			case "first_name":
				p.FirstName = v
			case "last_name":
				p.LastName = v
			case "organization_name":
				p.OrganizationName = v
			case "email":
				p.Email = v
			case "domain":
				p.Domain = normalizeDomain(v)
			}
		}
		if p.HasPersonData() || p.HasCompanyData() {
			out = append(out, p)
		}
	}
	return out
}

// normalizeDomain turns a website value into a bare host.
func normalizeDomain(v string) string {
	v = strings.ToLower(v)
	v = strings.TrimPrefix(v, "https://")
	v = strings.TrimPrefix(v, "http://")
	v = strings.TrimPrefix(v, "www.")
	if i := strings.IndexAny(v, "/?#"); i >= 0 {
		v = v[:i]
	}
	return v
}
