// Package store persists quotations and per-owner design settings in MySQL
// or PostgreSQL through database/sql.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // registers "mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/shopspring/decimal"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/quote"
)

// ErrNotFound is returned when no row matches the owner and id.
var ErrNotFound = errors.New("store: not found")

// Dialect selects placeholder style and upsert syntax. Its value is also the
// database/sql driver name.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "pgx"
)

// Summary is one line of a quotation listing.
type Summary struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Customer   string          `json:"customer"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Settings are an owner's branding and design defaults.
type Settings struct {
	Company quote.CompanyBranding `json:"company"`
	Design  design.Config         `json:"design"`
}

// DefaultSettings is what an owner without a saved row gets.
func DefaultSettings() Settings {
	return Settings{Design: design.Default()}
}

// SQLStore implements quotation and settings persistence.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open connects with the dialect's driver and checks the connection.
func Open(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	switch dialect {
	case MySQL, Postgres:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", dialect)
	}
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return New(db, dialect), nil
}

// New wraps an existing handle.
func New(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SQLStore) Close() error { return s.db.Close() }

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS quotations (
	owner_id VARCHAR(64) NOT NULL,
	id VARCHAR(64) NOT NULL,
	number VARCHAR(64) NOT NULL,
	customer VARCHAR(255) NOT NULL,
	grand_total NUMERIC(14,2) NOT NULL,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (owner_id, id)
)`,
	`CREATE TABLE IF NOT EXISTS design_settings (
	owner_id VARCHAR(64) NOT NULL PRIMARY KEY,
	company TEXT NOT NULL,
	design TEXT NOT NULL
)`,
}

// Migrate creates the tables when missing.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) GetQuotation(ctx context.Context, owner, id string) (*quote.Quotation, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT payload FROM quotations WHERE owner_id = ? AND id = ?`), owner, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get quotation: %w", err)
	}
	var q quote.Quotation
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return nil, fmt.Errorf("store: decode quotation %s: %w", id, err)
	}
	q.ID = id
	return &q, nil
}

// SaveQuotation inserts or replaces q. q.ID must be set.
func (s *SQLStore) SaveQuotation(ctx context.Context, owner string, q *quote.Quotation) error {
	if q == nil || q.ID == "" {
		return errors.New("store: quotation id is required")
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("store: encode quotation: %w", err)
	}
	query := `INSERT INTO quotations (owner_id, id, number, customer, grand_total, payload, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	if s.dialect == Postgres {
		query += `
ON CONFLICT (owner_id, id) DO UPDATE SET number = EXCLUDED.number, customer = EXCLUDED.customer,
grand_total = EXCLUDED.grand_total, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	} else {
		query += `
ON DUPLICATE KEY UPDATE number = VALUES(number), customer = VALUES(customer),
grand_total = VALUES(grand_total), payload = VALUES(payload), updated_at = VALUES(updated_at)`
	}
	_, err = s.db.ExecContext(ctx, s.rebind(query),
		owner, q.ID, q.Number, q.Customer.Name, q.Totals.GrandTotal.StringFixed(2), string(payload), s.now())
	if err != nil {
		return fmt.Errorf("store: save quotation: %w", err)
	}
	return nil
}

// ListQuotations returns the owner's quotations, most recently saved first.
func (s *SQLStore) ListQuotations(ctx context.Context, owner string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, number, customer, grand_total, updated_at FROM quotations WHERE owner_id = ? ORDER BY updated_at DESC, id`,
	), owner)
	if err != nil {
		return nil, fmt.Errorf("store: list quotations: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Number, &sum.Customer, &sum.GrandTotal, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan quotation: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list quotations: %w", err)
	}
	return out, nil
}

// GetSettings returns the owner's settings, or DefaultSettings when none
// were saved. Saved designs are decoded over the defaults.
func (s *SQLStore) GetSettings(ctx context.Context, owner string) (Settings, error) {
	var company, cfg string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT company, design FROM design_settings WHERE owner_id = ?`), owner,
	).Scan(&company, &cfg)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("store: get settings: %w", err)
	}
	out := DefaultSettings()
	if err := json.Unmarshal([]byte(company), &out.Company); err != nil {
		return Settings{}, fmt.Errorf("store: decode company: %w", err)
	}
	if err := json.Unmarshal([]byte(cfg), &out.Design); err != nil {
		return Settings{}, fmt.Errorf("store: decode design: %w", err)
	}
	return out, nil
}

// SaveSettings validates the design and upserts the owner's row.
func (s *SQLStore) SaveSettings(ctx context.Context, owner string, st Settings) error {
	if err := st.Design.Validate(); err != nil {
		return err
	}
	company, err := json.Marshal(st.Company)
	if err != nil {
		return fmt.Errorf("store: encode company: %w", err)
	}
	cfg, err := json.Marshal(st.Design)
	if err != nil {
		return fmt.Errorf("store: encode design: %w", err)
	}
	query := `INSERT INTO design_settings (owner_id, company, design) VALUES (?, ?, ?)`
	if s.dialect == Postgres {
		query += ` ON CONFLICT (owner_id) DO UPDATE SET company = EXCLUDED.company, design = EXCLUDED.design`
	} else {
		query += ` ON DUPLICATE KEY UPDATE company = VALUES(company), design = VALUES(design)`
	}
	if _, err := s.db.ExecContext(ctx, s.rebind(query), owner, string(company), string(cfg)); err != nil {
		return fmt.Errorf("store: save settings: %w", err)
	}
	return nil
}
