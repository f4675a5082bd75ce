package importer

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// EnrichedRow is the flattened view of a matched person.
type EnrichedRow struct {
	Name         string              `json:"name"`
	Email        string              `json:"email,omitempty"`
	Phone        string              `json:"phone,omitempty"`
	Title        string              `json:"title,omitempty"`
	Company      string              `json:"company,omitempty"`
	LinkedIn     string              `json:"linkedin,omitempty"`
	Location     string              `json:"location,omitempty"`
	Photo        string              `json:"photo,omitempty"`
	Organization *model.Organization `json:"organization,omitempty"`
}

// Row is one line of an import report.
type Row struct {
	ID       string             `json:"id"`
	Original model.EnrichParams `json:"original"`
	Enriched *EnrichedRow       `json:"enriched"`
	Success  bool               `json:"success"`
	Error    *string            `json:"error"`
}

// Summary counts an import run.
type Summary struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	SuccessRate int `json:"successRate"`
}

// Report is the result of enriching an uploaded file.
type Report struct {
	RunID   string  `json:"run_id"`
	Results []Row   `json:"results"`
	Summary Summary `json:"summary"`
}

// BuildReport flattens provider batch results into a report.
func BuildReport(items []model.ProviderBatchItem) Report {
	rep := Report{RunID: uuid.NewString(), Results: make([]Row, 0, len(items))}
	for i, it := range items {
		if it.Enriched == nil {
			msg := it.Error
			if msg == "" {
				msg = "No matching person found"
			}
			rep.Results = append(rep.Results, Row{
				ID:       fmt.Sprintf("failed_%d", i),
				Original: it.Original,
				Error:    &msg,
			})
			rep.Summary.Failed++
			continue
		}

		p := it.Enriched
		row := &EnrichedRow{
			Name:         p.DisplayName(),
			Email:        p.Email,
			Title:        p.Title,
			LinkedIn:     p.LinkedInURL,
			Location:     p.Location(),
			Photo:        p.PhotoURL,
			Organization: p.Organization,
		}
		if len(p.PhoneNumbers) > 0 {
			row.Phone = p.PhoneNumbers[0].SanitizedNumber
		}
		if p.Organization != nil {
			row.Company = p.Organization.Name
		}
		rep.Results = append(rep.Results, Row{
			ID:       fmt.Sprintf("enriched_%d", i),
			Original: it.Original,
			Enriched: row,
			Success:  true,
		})
		rep.Summary.Successful++
	}

	rep.Summary.Total = len(items)
	if rep.Summary.Total > 0 {
		rep.Summary.SuccessRate = int(math.Round(float64(rep.Summary.Successful) / float64(rep.Summary.Total) * 100))
	}
	return rep
}
