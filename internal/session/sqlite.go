package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// Field keys for the session key-value table.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserID       = "user_id"
	keyUserName     = "user_name"
	keyUserEmail    = "user_email"
)

const schema = `
CREATE TABLE IF NOT EXISTS session (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store on a local SQLite database, the desktop
// analogue of a mobile app's private preferences file. All writes commit
// before the call returns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the session database at the given path.
// Parent directories are created automatically.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save overwrites the whole session in one transaction.
func (s *SQLiteStore) Save(accessToken, refreshToken string, userID int, name, email string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	for key, value := range fieldMap(accessToken, refreshToken, userID, name, email) {
		if _, err := tx.Exec("INSERT INTO session (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to write session field %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token, if any.
func (s *SQLiteStore) AccessToken() (string, bool) { return s.get(keyAccessToken) }

// RefreshToken returns the stored refresh token, if any.
func (s *SQLiteStore) RefreshToken() (string, bool) { return s.get(keyRefreshToken) }

// UserID returns the stored user ID, if any.
func (s *SQLiteStore) UserID() (int, bool) {
	v, ok := s.get(keyUserID)
	return parseUserID(v, ok)
}

// UserName returns the cached display name, if any.
func (s *SQLiteStore) UserName() (string, bool) { return s.get(keyUserName) }

// UserEmail returns the cached email, if any.
func (s *SQLiteStore) UserEmail() (string, bool) { return s.get(keyUserEmail) }

// LoggedIn reports whether both tokens are present.
func (s *SQLiteStore) LoggedIn() bool {
	_, hasAccess := s.AccessToken()
	_, hasRefresh := s.RefreshToken()
	return hasAccess && hasRefresh
}

// Clear erases all session fields.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM session WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// fieldMap builds the key-value representation shared by both store
// implementations. Empty values are stored as absent, so a Save with empty
// tokens reads back the same as a cleared session.
func fieldMap(accessToken, refreshToken string, userID int, name, email string) map[string]string {
	fields := map[string]string{
		keyUserID: strconv.Itoa(userID),
	}
	if accessToken != "" {
		fields[keyAccessToken] = accessToken
	}
	if refreshToken != "" {
		fields[keyRefreshToken] = refreshToken
	}
	if name != "" {
		fields[keyUserName] = name
	}
	if email != "" {
		fields[keyUserEmail] = email
	}
	return fields
}

func parseUserID(v string, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return id, true
}
