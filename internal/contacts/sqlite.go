package contacts

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	name                TEXT NOT NULL DEFAULT '',
	email               TEXT NOT NULL DEFAULT '',
	company             TEXT NOT NULL DEFAULT '',
	title               TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	phone_number_status TEXT NOT NULL DEFAULT '',
	linkedin_url        TEXT NOT NULL DEFAULT '',
	provider_person_id  TEXT NOT NULL DEFAULT '',
	updated_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_contacts_user ON contacts(user_id);
CREATE INDEX IF NOT EXISTS idx_contacts_provider ON contacts(user_id, provider_person_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpdateContact(ctx context.Context, userID, contactID string, u model.ContactUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	sets, args := updateColumns(u, func(int) string { return "?" })
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), contactID, userID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update contact %s", contactID)
	}
	return checkRowsAffected(res, contactID)
}

func (s *SQLiteStore) FindContactByProviderID(ctx context.Context, userID, providerPersonID string) (*model.Contact, error) {
	if providerPersonID == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE user_id = ? AND provider_person_id = ?
		 ORDER BY updated_at DESC LIMIT 1`,
		userID, providerPersonID,
	)
	c, err := scanContact(row)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find contact by provider id")
	}
	return c, nil
}

func (s *SQLiteStore) GetContact(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND user_id = ?`,
		contactID, userID,
	)
	c, err := scanContact(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get contact %s", contactID)
	}
	return c, nil
}

func (s *SQLiteStore) UpsertContact(ctx context.Context, c *model.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, user_id, name, email, company, title, phone, phone_number_status, linkedin_url, provider_person_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			company = excluded.company,
			title = excluded.title,
			phone = excluded.phone,
			phone_number_status = excluded.phone_number_status,
			linkedin_url = excluded.linkedin_url,
			provider_person_id = excluded.provider_person_id,
			updated_at = excluded.updated_at`,
		c.ID, c.UserID, c.Name, c.Email, c.Company, c.Title, c.Phone,
		string(c.PhoneNumberStatus), c.LinkedInURL, c.ProviderPersonID, c.UpdatedAt,
	)
	return eris.Wrap(err, "sqlite: upsert contact")
}

// helpers

const contactColumns = `id, user_id, name, email, company, title, phone, phone_number_status, linkedin_url, provider_person_id, updated_at`

// updateColumns renders SET clauses for the non-empty fields of u. ph
// returns the placeholder for the n-th argument (1-based).
func updateColumns(u model.ContactUpdate, ph func(n int) string) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = "+ph(len(args)))
	}
	if u.Phone != "" {
		add("phone", u.Phone)
	}
	if u.PhoneNumberStatus != "" {
		add("phone_number_status", string(u.PhoneNumberStatus))
	}
	if u.LinkedInURL != "" {
		add("linkedin_url", u.LinkedInURL)
	}
	if u.Title != "" {
		add("title", u.Title)
	}
	if u.Company != "" {
		add("company", u.Company)
	}
	if u.ProviderPersonID != "" {
		add("provider_person_id", u.ProviderPersonID)
	}
	return sets, args
}

func checkRowsAffected(res sql.Result, contactID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "contact %s", contactID)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanContact(row scannable) (*model.Contact, error) {
	var c model.Contact
	var status string
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Company, &c.Title,
		&c.Phone, &status, &c.LinkedInURL, &c.ProviderPersonID, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan contact")
	}
	c.PhoneNumberStatus = model.PhoneStatus(status)
	return &c, nil
}
