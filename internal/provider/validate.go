package provider

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/pkg/apollo"
)

// KeyStatus is the outcome of ValidateKey.
type KeyStatus struct {
	Valid bool `json:"valid"`
	// PhoneAccess is false when Apollo refused the phone-reveal probe with
	// 402 or 403.
	PhoneAccess bool `json:"phone_access"`
}

// ValidateKey checks the configured credential against organizations/search,
// falling back to mixed_people/search. Unlike the enrichment paths, transport
// failures are returned to the caller. Auth rejections (401/403) report an
// invalid key with a nil error.
func (c *Client) ValidateKey(ctx context.Context) (KeyStatus, error) {
	err := c.api.SearchOrganizations(ctx)
	if err != nil {
		zap.L().Info("validate: organizations/search failed, trying mixed_people/search",
			zap.Int("status", apollo.StatusCode(err)),
			zap.Error(err),
		)
		_, err = c.api.SearchPeople(ctx, apollo.SearchRequest{PerPage: 1})
	}
	if err != nil {
		switch apollo.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired:
			zap.L().Warn("validate: credential rejected", zap.Int("status", apollo.StatusCode(err)))
			return KeyStatus{}, nil
		}
		return KeyStatus{}, eris.Wrap(err, "provider: validate key")
	}

	status := KeyStatus{Valid: true, PhoneAccess: true}
	code, probeErr := c.api.ProbeMatch(ctx)
	switch {
	case probeErr != nil:
		zap.L().Warn("validate: could not probe phone reveal access", zap.Error(probeErr))
	case code == http.StatusPaymentRequired || code == http.StatusForbidden:
		status.PhoneAccess = false
		zap.L().Warn("validate: phone number access may be restricted on this plan", zap.Int("status", code))
	}
	return status, nil
}
