package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/db"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// PostgresStore implements Store over a pgx pool.
type PostgresStore struct {
	pool db.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgres opens a pool against connString.
func NewPostgres(ctx context.Context, connString string, poolCfg db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.NewPool(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id                  TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id             TEXT NOT NULL,
	name                TEXT NOT NULL DEFAULT '',
	email               TEXT NOT NULL DEFAULT '',
	company             TEXT NOT NULL DEFAULT '',
	title               TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	phone_number_status TEXT NOT NULL DEFAULT '',
	linkedin_url        TEXT NOT NULL DEFAULT '',
	provider_person_id  TEXT NOT NULL DEFAULT '',
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);
CREATE INDEX IF NOT EXISTS idx_contacts_provider ON contacts(user_id, provider_person_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpdateContact(ctx context.Context, userID, contactID string, u model.ContactUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	ph := func(n int) string { return fmt.Sprintf("$%d", n) }
	sets, args := updateColumns(u, ph)
	args = append(args, time.Now().UTC())
	sets = append(sets, "updated_at = "+ph(len(args)))
	args = append(args, contactID, userID)

	sql := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = %s AND user_id = %s`,
		strings.Join(sets, ", "), ph(len(args)-1), ph(len(args)))

	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: update contact %s", contactID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "contact %s", contactID)
	}
	return nil
}

func (s *PostgresStore) FindContactByProviderID(ctx context.Context, userID, providerPersonID string) (*model.Contact, error) {
	if providerPersonID == "" {
		return nil, nil
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE user_id = $1 AND provider_person_id = $2
		 ORDER BY updated_at DESC LIMIT 1`,
		userID, providerPersonID,
	)
	c, err := scanPgContact(row)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find contact by provider id")
	}
	return c, nil
}

func (s *PostgresStore) GetContact(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND user_id = $2`,
		contactID, userID,
	)
	c, err := scanPgContact(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get contact %s", contactID)
	}
	return c, nil
}

func (s *PostgresStore) UpsertContact(ctx context.Context, c *model.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.UpdatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, user_id, name, email, company, title, phone, phone_number_status, linkedin_url, provider_person_id, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			company = EXCLUDED.company,
			title = EXCLUDED.title,
			phone = EXCLUDED.phone,
			phone_number_status = EXCLUDED.phone_number_status,
			linkedin_url = EXCLUDED.linkedin_url,
			provider_person_id = EXCLUDED.provider_person_id,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.UserID, c.Name, c.Email, c.Company, c.Title, c.Phone,
		string(c.PhoneNumberStatus), c.LinkedInURL, c.ProviderPersonID, c.UpdatedAt,
	)
	return eris.Wrap(err, "postgres: upsert contact")
}

func scanPgContact(row pgx.Row) (*model.Contact, error) {
	var c model.Contact
	var status string
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Company, &c.Title,
		&c.Phone, &status, &c.LinkedInURL, &c.ProviderPersonID, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan contact")
	}
	c.PhoneNumberStatus = model.PhoneStatus(status)
	return &c, nil
}
