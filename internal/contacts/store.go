// Package contacts is the downstream contact store the webhook reconciler
// writes phone data into.
package contacts

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// ErrNotFound is returned when a contact does not exist for the user.
var ErrNotFound = eris.New("contacts: contact not found")

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store defines the persistence interface for CRM contacts.
type Store interface {
	// UpdateContact applies the non-empty fields of u to a user's contact.
	UpdateContact(ctx context.Context, userID, contactID string, u model.ContactUpdate) error
	// FindContactByProviderID returns the user's contact tagged with the
	// provider person id, or nil when none is tagged.
	FindContactByProviderID(ctx context.Context, userID, providerPersonID string) (*model.Contact, error)

	GetContact(ctx context.Context, userID, contactID string) (*model.Contact, error)
	UpsertContact(ctx context.Context, c *model.Contact) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
