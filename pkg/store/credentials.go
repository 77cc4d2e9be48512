package store

import "strings"

// User is the authenticated user record persisted at login.
type User struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Token returns the stored bearer credential, or "" when absent or unreadable.
func Token(s Store) string {
	var token string
	ok, err := s.Get(KeyToken, &token)
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// SetCredentials persists the token and user record from a login response.
func SetCredentials(s Store, token string, user User) error {
	if err := s.Set(KeyToken, token); err != nil {
		return err
	}
	return s.Set(KeyUser, user)
}

// ClearCredentials removes the token and user record.
func ClearCredentials(s Store) error {
	if err := s.Delete(KeyToken); err != nil {
		return err
	}
	return s.Delete(KeyUser)
}

// CurrentUser returns the stored user record, if any.
func CurrentUser(s Store) (User, bool) {
	var user User
	ok, err := s.Get(KeyUser, &user)
	if err != nil || !ok {
		return User{}, false
	}
	return user, true
}

// ClearLegacyHistory removes the superseded per-user prompt history blob.
func ClearLegacyHistory(s Store, userID string) error {
	if userID == "" {
		return nil
	}
	return s.Delete(legacyHistoryPrefix + userID)
}
