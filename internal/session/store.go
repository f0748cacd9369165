// Package session persists the device-local authentication session: the
// access/refresh token pair and the cached identity of the signed-in user.
package session

// Store defines the interface for session persistence.
// Writes are synchronous: once Save or Clear returns, subsequent reads
// observe the new values. The access and refresh tokens are written and
// cleared together, never one without the other.
type Store interface {
	// Save overwrites the whole session with the given values.
	Save(accessToken, refreshToken string, userID int, name, email string) error

	// AccessToken returns the stored access token, if any.
	AccessToken() (string, bool)

	// RefreshToken returns the stored refresh token, if any.
	RefreshToken() (string, bool)

	// UserID returns the stored user ID, if any.
	UserID() (int, bool)

	// UserName returns the cached display name, if any.
	UserName() (string, bool)

	// UserEmail returns the cached email, if any.
	UserEmail() (string, bool)

	// LoggedIn reports whether both tokens are present.
	LoggedIn() bool

	// Clear erases all session fields. Used on explicit logout and on
	// irrecoverable authentication failure.
	Clear() error

	// Close releases any resources held by the store.
	Close() error
}
