// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the pipeline's records in a SQLite database with
// primary-key upsert semantics: saving a record whose id already exists
// replaces that row's fields, saving a new id appends a row, and no
// deletion path exists. The complete-formalization view is derived from
// the stored tables on demand.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/rfc-formalizer/pkg/types"
)

const dbFile = "formalizer.db"

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Store manages the formalization database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens or creates the database at dataDir/formalizer.db and creates
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rfc TEXT PRIMARY KEY,
			title TEXT,
			total_chars INTEGER,
			parsed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			rfc TEXT NOT NULL,
			section TEXT,
			text TEXT NOT NULL,
			category TEXT NOT NULL,
			timestamp TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS propositions (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			description TEXT,
			timestamp TEXT,
			approved INTEGER NOT NULL DEFAULT 0,
			approved_by TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS formulas (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL,
			formula TEXT NOT NULL,
			explanation TEXT,
			operators TEXT,
			timestamp TEXT,
			approved INTEGER NOT NULL DEFAULT 0,
			approved_by TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			rfc TEXT PRIMARY KEY,
			stage TEXT NOT NULL,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_rfc ON properties(rfc)`,
		`CREATE INDEX IF NOT EXISTS idx_propositions_property ON propositions(property_id)`,
		`CREATE INDEX IF NOT EXISTS idx_formulas_property ON formulas(property_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveDocument upserts a parsed document keyed by RFC number.
func (s *Store) SaveDocument(ctx context.Context, doc types.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (rfc, title, total_chars, parsed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(rfc) DO UPDATE SET
			title=excluded.title, total_chars=excluded.total_chars,
			parsed_at=excluded.parsed_at`,
		doc.RFCNumber, doc.Title, doc.TotalChars, formatTime(doc.ParsedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.RFCNumber, err)
	}
	return nil
}

// SaveProperties upserts properties by id inside one transaction.
func (s *Store) SaveProperties(ctx context.Context, properties []types.Property) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO properties (id, rfc, section, text, category, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				rfc=excluded.rfc, section=excluded.section, text=excluded.text,
				category=excluded.category, timestamp=excluded.timestamp`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range properties {
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.RFC, p.Section, p.Text, string(p.Category), formatTime(p.Timestamp),
			); err != nil {
				return fmt.Errorf("upserting property %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// SavePropositions upserts propositions by id inside one transaction.
func (s *Store) SavePropositions(ctx context.Context, propositions []types.Proposition) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO propositions (id, property_id, name, kind, description, timestamp, approved, approved_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				property_id=excluded.property_id, name=excluded.name,
				kind=excluded.kind, description=excluded.description,
				timestamp=excluded.timestamp, approved=excluded.approved,
				approved_by=excluded.approved_by`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range propositions {
			if _, err := stmt.ExecContext(ctx,
				p.ID, p.PropertyID, p.Name, string(p.Kind), p.Description,
				formatTime(p.Timestamp), p.Approved, p.ApprovedBy,
			); err != nil {
				return fmt.Errorf("upserting proposition %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// SaveFormulas upserts formulas by id inside one transaction. Operators
// are stored comma-joined.
func (s *Store) SaveFormulas(ctx context.Context, formulas []types.Formula) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO formulas (id, property_id, formula, explanation, operators, timestamp, approved, approved_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				property_id=excluded.property_id, formula=excluded.formula,
				explanation=excluded.explanation, operators=excluded.operators,
				timestamp=excluded.timestamp, approved=excluded.approved,
				approved_by=excluded.approved_by`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range formulas {
			if _, err := stmt.ExecContext(ctx,
				f.ID, f.PropertyID, f.Text, f.Explanation,
				strings.Join(f.Operators, ","), formatTime(f.Timestamp),
				f.Approved, f.ApprovedBy,
			); err != nil {
				return fmt.Errorf("upserting formula %s: %w", f.ID, err)
			}
		}
		return nil
	})
}

// ApprovePropositions marks the named propositions approved by approver
// and returns how many rows changed.
func (s *Store) ApprovePropositions(ctx context.Context, ids []string, approver string) (int64, error) {
	return s.approve(ctx, "propositions", ids, approver)
}

// ApproveFormulas marks the named formulas approved by approver and
// returns how many rows changed.
func (s *Store) ApproveFormulas(ctx context.Context, ids []string, approver string) (int64, error) {
	return s.approve(ctx, "formulas", ids, approver)
}

func (s *Store) approve(ctx context.Context, table string, ids []string, approver string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, approver)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET approved = 1, approved_by = ? WHERE id IN (%s)`, table, placeholders),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("approving %s: %w", table, err)
	}
	return res.RowsAffected()
}

// GetProperty returns one property by id.
func (s *Store) GetProperty(ctx context.Context, id string) (types.Property, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, rfc, section, text, category, timestamp FROM properties WHERE id = ?`, id)

	var p types.Property
	var category, ts string
	if err := row.Scan(&p.ID, &p.RFC, &p.Section, &p.Text, &category, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Property{}, fmt.Errorf("property %s: %w", id, ErrNotFound)
		}
		return types.Property{}, fmt.Errorf("looking up property: %w", err)
	}
	p.Category = types.PropertyCategory(category)
	p.Timestamp = parseTime(ts)
	return p, nil
}

// GetProposition returns one proposition by id.
func (s *Store) GetProposition(ctx context.Context, id string) (types.Proposition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, property_id, name, kind, description, timestamp, approved, approved_by
		 FROM propositions WHERE id = ?`, id)

	p, err := scanProposition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Proposition{}, fmt.Errorf("proposition %s: %w", id, ErrNotFound)
		}
		return types.Proposition{}, fmt.Errorf("looking up proposition: %w", err)
	}
	return p, nil
}

// GetFormula returns one formula by id.
func (s *Store) GetFormula(ctx context.Context, id string) (types.Formula, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, property_id, formula, explanation, operators, timestamp, approved, approved_by
		 FROM formulas WHERE id = ?`, id)

	f, err := scanFormula(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Formula{}, fmt.Errorf("formula %s: %w", id, ErrNotFound)
		}
		return types.Formula{}, fmt.Errorf("looking up formula: %w", err)
	}
	return f, nil
}

// ListProperties returns properties in insertion order, optionally
// filtered by RFC number.
func (s *Store) ListProperties(ctx context.Context, rfc string) ([]types.Property, error) {
	query := `SELECT id, rfc, section, text, category, timestamp FROM properties`
	var args []any
	if rfc != "" {
		query += ` WHERE rfc = ?`
		args = append(args, rfc)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var properties []types.Property
	for rows.Next() {
		var p types.Property
		var category, ts string
		if err := rows.Scan(&p.ID, &p.RFC, &p.Section, &p.Text, &category, &ts); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		p.Category = types.PropertyCategory(category)
		p.Timestamp = parseTime(ts)
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// ListPropositions returns propositions in insertion order, optionally
// filtered by parent property.
func (s *Store) ListPropositions(ctx context.Context, propertyID string) ([]types.Proposition, error) {
	query := `SELECT id, property_id, name, kind, description, timestamp, approved, approved_by FROM propositions`
	var args []any
	if propertyID != "" {
		query += ` WHERE property_id = ?`
		args = append(args, propertyID)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying propositions: %w", err)
	}
	defer rows.Close()

	var propositions []types.Proposition
	for rows.Next() {
		p, err := scanProposition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning proposition: %w", err)
		}
		propositions = append(propositions, p)
	}
	return propositions, rows.Err()
}

// ListFormulas returns formulas in insertion order, optionally filtered
// by parent property.
func (s *Store) ListFormulas(ctx context.Context, propertyID string) ([]types.Formula, error) {
	query := `SELECT id, property_id, formula, explanation, operators, timestamp, approved, approved_by FROM formulas`
	var args []any
	if propertyID != "" {
		query += ` WHERE property_id = ?`
		args = append(args, propertyID)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying formulas: %w", err)
	}
	defer rows.Close()

	var formulas []types.Formula
	for rows.Next() {
		f, err := scanFormula(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning formula: %w", err)
		}
		formulas = append(formulas, f)
	}
	return formulas, rows.Err()
}

// Counts summarizes the store contents for status output.
type Counts struct {
	Documents        int
	Properties       int
	Propositions     int
	Formulas         int
	ApprovedFormulas int
}

// Count returns record counts across all tables.
func (s *Store) Count(ctx context.Context) (Counts, error) {
	var c Counts
	queries := []struct {
		query string
		dst   *int
	}{
		{`SELECT count(*) FROM documents`, &c.Documents},
		{`SELECT count(*) FROM properties`, &c.Properties},
		{`SELECT count(*) FROM propositions`, &c.Propositions},
		{`SELECT count(*) FROM formulas`, &c.Formulas},
		{`SELECT count(*) FROM formulas WHERE approved = 1`, &c.ApprovedFormulas},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return Counts{}, fmt.Errorf("counting records: %w", err)
		}
	}
	return c, nil
}

// SessionRecord is the persisted workflow position for one document.
type SessionRecord struct {
	RFC       string
	Stage     string
	UpdatedAt time.Time
}

// SaveSession upserts the workflow position for an RFC.
func (s *Store) SaveSession(ctx context.Context, rfc, stage string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (rfc, stage, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(rfc) DO UPDATE SET stage=excluded.stage, updated_at=excluded.updated_at`,
		rfc, stage, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("saving session for %s: %w", rfc, err)
	}
	return nil
}

// GetSession returns the persisted workflow position for an RFC.
func (s *Store) GetSession(ctx context.Context, rfc string) (SessionRecord, error) {
	var rec SessionRecord
	var ts string
	err := s.db.QueryRowContext(ctx,
		`SELECT rfc, stage, updated_at FROM sessions WHERE rfc = ?`, rfc,
	).Scan(&rec.RFC, &rec.Stage, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SessionRecord{}, fmt.Errorf("session %s: %w", rfc, ErrNotFound)
		}
		return SessionRecord{}, fmt.Errorf("looking up session: %w", err)
	}
	rec.UpdatedAt = parseTime(ts)
	return rec, nil
}

// ListSessions returns every persisted session.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT rfc, stage, updated_at FROM sessions ORDER BY rfc`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var ts string
		if err := rows.Scan(&rec.RFC, &rec.Stage, &ts); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		rec.UpdatedAt = parseTime(ts)
		sessions = append(sessions, rec)
	}
	return sessions, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProposition(sc scanner) (types.Proposition, error) {
	var p types.Proposition
	var kind, ts string
	if err := sc.Scan(&p.ID, &p.PropertyID, &p.Name, &kind, &p.Description, &ts, &p.Approved, &p.ApprovedBy); err != nil {
		return types.Proposition{}, err
	}
	p.Kind = types.PropositionKind(kind)
	p.Timestamp = parseTime(ts)
	return p, nil
}

func scanFormula(sc scanner) (types.Formula, error) {
	var f types.Formula
	var operators, ts string
	if err := sc.Scan(&f.ID, &f.PropertyID, &f.Text, &f.Explanation, &operators, &ts, &f.Approved, &f.ApprovedBy); err != nil {
		return types.Formula{}, err
	}
	if operators != "" {
		f.Operators = strings.Split(operators, ",")
	}
	f.Timestamp = parseTime(ts)
	return f, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime is lenient: unparseable or empty timestamps become zero times
// rather than errors.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
