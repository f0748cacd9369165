package session

import "sync"

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store. The session does not survive the
// process; useful for tests and one-shot CLI invocations.
type MemoryStore struct {
	mu     sync.RWMutex
	fields map[string]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fields: make(map[string]string)}
}

// Save overwrites the whole session.
func (s *MemoryStore) Save(accessToken, refreshToken string, userID int, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = fieldMap(accessToken, refreshToken, userID, name, email)
	return nil
}

// AccessToken returns the stored access token, if any.
func (s *MemoryStore) AccessToken() (string, bool) { return s.get(keyAccessToken) }

// RefreshToken returns the stored refresh token, if any.
func (s *MemoryStore) RefreshToken() (string, bool) { return s.get(keyRefreshToken) }

// UserID returns the stored user ID, if any.
func (s *MemoryStore) UserID() (int, bool) {
	v, ok := s.get(keyUserID)
	return parseUserID(v, ok)
}

// UserName returns the cached display name, if any.
func (s *MemoryStore) UserName() (string, bool) { return s.get(keyUserName) }

// UserEmail returns the cached email, if any.
func (s *MemoryStore) UserEmail() (string, bool) { return s.get(keyUserEmail) }

// LoggedIn reports whether both tokens are present.
func (s *MemoryStore) LoggedIn() bool {
	_, hasAccess := s.AccessToken()
	_, hasRefresh := s.RefreshToken()
	return hasAccess && hasRefresh
}

// Clear erases all session fields.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = make(map[string]string)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fields[key]
	return v, ok
}
