package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newFileStore(t)

	var got string
	ok, err := s.Get("missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("greeting", "hello"))
	require.NoError(t, s.Set("count", 42))

	ok, err = s.Get("greeting", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", got)

	var count int
	ok, err = s.Get("count", &count)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, count)
}

func TestFileStoreSetPreservesOtherKeys(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.Set("a", "one"))
	require.NoError(t, s.Set("b", "two"))
	require.NoError(t, s.Set("a", "changed"))

	var b string
	ok, err := s.Get("b", &b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", b)
}

func TestFileStoreDelete(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.Set("a", "one"))
	require.NoError(t, s.Delete("a"))

	var got string
	ok, err := s.Get("a", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete("a"))
}

func TestFileStoreCorruptValueIsParseError(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.Set("titles", `not-an-object`))

	var titles map[string]string
	_, err := s.Get("titles", &titles)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "titles", parseErr.Key)
}

func TestFileStoreCorruptFileIsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))
	s := NewFileStore(path)

	var got string
	_, err := s.Get("any", &got)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestCredentials(t *testing.T) {
	s := NewMemStore()
	assert.Empty(t, Token(s))
	_, ok := CurrentUser(s)
	assert.False(t, ok)

	user := User{ID: "u1", FirstName: "Asha", LastName: "Rao", Email: "a@b.co"}
	require.NoError(t, SetCredentials(s, "t1", user))

	assert.Equal(t, "t1", Token(s))
	got, ok := CurrentUser(s)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	require.NoError(t, ClearCredentials(s))
	assert.Empty(t, Token(s))
	_, ok = CurrentUser(s)
	assert.False(t, ok)
}

func TestClearLegacyHistory(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Set(legacyHistoryPrefix+"u1", []string{"old prompt"}))
	require.NoError(t, s.Set(legacyHistoryPrefix+"u2", []string{"keep"}))

	require.NoError(t, ClearLegacyHistory(s, "u1"))

	var history []string
	ok, err := s.Get(legacyHistoryPrefix+"u1", &history)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.Get(legacyHistoryPrefix+"u2", &history)
	require.NoError(t, err)
	assert.True(t, ok)

	// No user id, nothing to remove.
	require.NoError(t, ClearLegacyHistory(s, ""))
}
