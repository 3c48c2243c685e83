package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hamza-bely/4hybd/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the locally persisted login state: an opaque upstream
// token plus the user record it belongs to.
type Session struct {
	Token     string    `db:"token" json:"token"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User returns the user record embedded in the session.
func (s Session) User() models.User {
	return models.User{ID: s.UserID, Username: s.Username, Email: s.Email}
}

// SessionRepository abstracts session persistence. The store keeps at
// most one session: persisting replaces whatever was there.
type SessionRepository interface {
	PersistSession(ctx context.Context, token string, user models.User) error
	SessionByToken(ctx context.Context, token string) (Session, error)
	CurrentSession(ctx context.Context) (Session, error)
	ClearSession(ctx context.Context) error
}

// SessionRepo is a sqlx implementation of SessionRepository.
type SessionRepo struct {
	db *sqlx.DB
}

// NewSessionRepo constructs a SessionRepo.
func NewSessionRepo(db *sqlx.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// PersistSession stores the token and user record, replacing any
// previous session.
func (r *SessionRepo) PersistSession(ctx context.Context, token string, user models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, username, email) VALUES (?, ?, ?, ?)`,
		token, user.ID, user.Username, user.Email); err != nil {
		return err
	}
	return tx.Commit()
}

// SessionByToken looks up the session holding the given token.
func (r *SessionRepo) SessionByToken(ctx context.Context, token string) (Session, error) {
	var session Session
	err := r.db.GetContext(ctx, &session,
		`SELECT token, user_id, username, email, created_at FROM sessions WHERE token=?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return session, err
}

// CurrentSession returns the active session if one exists.
func (r *SessionRepo) CurrentSession(ctx context.Context) (Session, error) {
	var session Session
	err := r.db.GetContext(ctx, &session,
		`SELECT token, user_id, username, email, created_at FROM sessions ORDER BY created_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return session, err
}

// ClearSession removes all persisted sessions.
func (r *SessionRepo) ClearSession(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}
