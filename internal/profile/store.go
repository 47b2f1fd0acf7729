// Package profile is the secure persistence collaborator: users, completed
// assessment profiles, partner profiles, onboarding progress and feedback.
//
// It uses SQLite (pure-Go driver) in WAL mode. Profiles are overwrite-only:
// retaking the assessment replaces the previous row, and partial profiles
// are rejected before they reach the database.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HendryAvila/tether/internal/assessment"
	"github.com/HendryAvila/tether/internal/onboarding"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds profile store configuration.
type Config struct {
	DataDir string
	// RecentFeedbackLimit caps RecentFeedback when the caller passes 0.
	RecentFeedbackLimit int
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the profile persistence engine backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens SQLite with WAL mode, and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("profile: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "profiles.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("profile: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("profile: pragma %q: %w", p, err)
		}
	}

	if cfg.RecentFeedbackLimit <= 0 {
		cfg.RecentFeedbackLimit = 20
	}
	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("profile: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id           TEXT PRIMARY KEY,
			display_name TEXT,
			email        TEXT,
			anonymous    INTEGER NOT NULL DEFAULT 1,
			test_taken   INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email IS NOT NULL;

		CREATE TABLE IF NOT EXISTS profiles (
			user_id             TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			responses           TEXT NOT NULL,
			scores              TEXT NOT NULL,
			attachment_style    TEXT NOT NULL,
			communication_style TEXT NOT NULL,
			dominant_type       TEXT NOT NULL,
			fallback            INTEGER NOT NULL DEFAULT 0,
			completed_at        TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS partners (
			user_id             TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			name                TEXT NOT NULL,
			attachment_style    TEXT,
			communication_style TEXT,
			linked_at           TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS onboarding (
			user_id         TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			state           TEXT NOT NULL,
			completed_steps TEXT NOT NULL DEFAULT '[]',
			updated_at      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS feedback (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			category   TEXT NOT NULL,
			rating     INTEGER NOT NULL,
			message    TEXT NOT NULL,
			email      TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_feedback_created ON feedback(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Users ───────────────────────────────────────────────────────────────────

// UpsertUser inserts the user or updates name/email/anonymous. TestTaken and
// CreatedAt are preserved for existing rows.
func (s *Store) UpsertUser(ctx context.Context, u User) (*User, error) {
	now := stamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, anonymous, test_taken, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			email        = excluded.email,
			anonymous    = excluded.anonymous,
			updated_at   = excluded.updated_at`,
		u.ID, nullableString(u.DisplayName), nullableString(u.Email), boolInt(u.Anonymous), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting user %q: %w", u.ID, err)
	}
	return s.GetUser(ctx, u.ID)
}

// GetUser returns the user, or nil if unknown.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, anonymous, test_taken, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user registered with email, or nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, anonymous, test_taken, created_at, updated_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u                  User
		name, email        sql.NullString
		anonymous, takenIt int
	)
	if err := row.Scan(&u.ID, &name, &email, &anonymous, &takenIt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.DisplayName = name.String
	u.Email = email.String
	u.Anonymous = anonymous != 0
	u.TestTaken = takenIt != 0
	return &u, nil
}

// MarkTestTaken flags that the user reached the end of the questionnaire.
// Calling it again is a no-op.
func (s *Store) MarkTestTaken(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET test_taken = 1, updated_at = ? WHERE id = ? AND test_taken = 0`,
		stamp(), userID,
	)
	if err != nil {
		return fmt.Errorf("marking test taken for %q: %w", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		u, err := s.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %q not found", userID)
		}
	}
	return nil
}

// ─── Profiles ────────────────────────────────────────────────────────────────

// StorePersonalityResults writes the user's completed profile, replacing any
// earlier one. Incomplete profiles are rejected.
func (s *Store) StorePersonalityResults(ctx context.Context, p *PersistedProfile) error {
	if p == nil {
		return fmt.Errorf("nil profile")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	responses, err := json.Marshal(p.Responses)
	if err != nil {
		return fmt.Errorf("marshaling responses: %w", err)
	}
	scores, err := json.Marshal(p.Scores)
	if err != nil {
		return fmt.Errorf("marshaling scores: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, responses, scores, attachment_style, communication_style, dominant_type, fallback, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			responses           = excluded.responses,
			scores              = excluded.scores,
			attachment_style    = excluded.attachment_style,
			communication_style = excluded.communication_style,
			dominant_type       = excluded.dominant_type,
			fallback            = excluded.fallback,
			completed_at        = excluded.completed_at`,
		p.UserID, string(responses), string(scores), string(p.Attachment), string(p.Communication),
		p.DominantType, boolInt(p.Fallback), p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("storing profile for %q: %w", p.UserID, err)
	}
	return nil
}

// GetPersonalityResults returns the user's profile, or nil if they have not
// completed the assessment.
func (s *Store) GetPersonalityResults(ctx context.Context, userID string) (*PersistedProfile, error) {
	var (
		p                 PersistedProfile
		responses, scores string
		fallback          int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, responses, scores, attachment_style, communication_style, dominant_type, fallback, completed_at
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &responses, &scores, &p.Attachment, &p.Communication, &p.DominantType, &fallback, &p.CompletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading profile for %q: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(responses), &p.Responses); err != nil {
		return nil, fmt.Errorf("parsing stored responses: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &p.Scores); err != nil {
		return nil, fmt.Errorf("parsing stored scores: %w", err)
	}
	p.Fallback = fallback != 0
	return &p, nil
}

// ─── Partners ────────────────────────────────────────────────────────────────

// SavePartnerProfile links (or re-links) the user's partner.
func (s *Store) SavePartnerProfile(ctx context.Context, p *PartnerProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.LinkedAt == "" {
		p.LinkedAt = stamp()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partners (user_id, name, attachment_style, communication_style, linked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name                = excluded.name,
			attachment_style    = excluded.attachment_style,
			communication_style = excluded.communication_style,
			linked_at           = excluded.linked_at`,
		p.UserID, p.Name, nullableString(string(p.Attachment)), nullableString(string(p.Communication)), p.LinkedAt,
	)
	if err != nil {
		return fmt.Errorf("saving partner for %q: %w", p.UserID, err)
	}
	return nil
}

// GetPartnerProfile returns the linked partner, or nil.
func (s *Store) GetPartnerProfile(ctx context.Context, userID string) (*PartnerProfile, error) {
	var (
		p                       PartnerProfile
		attachment, communicate sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, name, attachment_style, communication_style, linked_at
		FROM partners WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Name, &attachment, &communicate, &p.LinkedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading partner for %q: %w", userID, err)
	}
	p.Attachment = assessment.AttachmentStyle(attachment.String)
	p.Communication = assessment.CommunicationStyle(communicate.String)
	return &p, nil
}

// ─── Onboarding ──────────────────────────────────────────────────────────────

// GetOnboarding returns the user's onboarding progress, starting a fresh one
// at the welcome screen if none is stored.
func (s *Store) GetOnboarding(ctx context.Context, userID string) (*onboarding.Progress, error) {
	var (
		p     onboarding.Progress
		steps string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, state, completed_steps, updated_at FROM onboarding WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.State, &steps, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return onboarding.NewProgress(userID), nil
		}
		return nil, fmt.Errorf("loading onboarding for %q: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(steps), &p.Completed); err != nil {
		return nil, fmt.Errorf("parsing onboarding steps: %w", err)
	}
	return &p, nil
}

// SaveOnboarding persists the progress record.
func (s *Store) SaveOnboarding(ctx context.Context, p *onboarding.Progress) error {
	if err := onboarding.ValidateState(p.State); err != nil {
		return err
	}
	steps, err := json.Marshal(p.Completed)
	if err != nil {
		return fmt.Errorf("marshaling onboarding steps: %w", err)
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = stamp()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO onboarding (user_id, state, completed_steps, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			state           = excluded.state,
			completed_steps = excluded.completed_steps,
			updated_at      = excluded.updated_at`,
		p.UserID, string(p.State), string(steps), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving onboarding for %q: %w", p.UserID, err)
	}
	return nil
}

// ─── Feedback ────────────────────────────────────────────────────────────────

// AddFeedback validates and stores a submission, returning its id.
func (s *Store) AddFeedback(ctx context.Context, f *Feedback) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	f.CreatedAt = stamp()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (user_id, category, rating, message, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.UserID, string(f.Category), f.Rating, f.Message, nullableString(f.Email), f.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("storing feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	f.ID = id
	return id, nil
}

// RecentFeedback returns the newest submissions first.
func (s *Store) RecentFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = s.cfg.RecentFeedbackLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, rating, message, email, created_at
		FROM feedback ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Feedback
	for rows.Next() {
		var (
			f     Feedback
			email sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.Category, &f.Rating, &f.Message, &email, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Email = email.String
		out = append(out, f)
	}
	return out, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func stamp() string {
	return timeNow().UTC().Format(time.RFC3339)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
