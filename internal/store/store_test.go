package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyCart, []byte(`{"items":[]}`)))

	blob, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(blob))
}

func TestFileStore_GetAbsent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SetOverwrites(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyToken, []byte(`"a"`)))
	require.NoError(t, s.Set(KeyToken, []byte(`"b"`)))

	blob, err := s.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, `"b"`, string(blob))
}

func TestFileStore_RemoveAbsentIsNoop(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Remove("nope"))
}

func TestFileStore_Remove(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyUser, []byte(`{}`)))
	require.NoError(t, s.Remove(KeyUser))

	_, err = s.Get(KeyUser)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(KeyOrders, []byte(`[]`)))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	blob, err := s2.Get(KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(blob))
}

func TestFileStore_KeySanitization(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("../escape", []byte(`1`)))

	// The value must land inside the data dir, not above it.
	_, err = os.Stat(filepath.Join(dir, "___escape.json"))
	require.NoError(t, err)

	blob, err := s.Get("../escape")
	require.NoError(t, err)
	assert.Equal(t, `1`, string(blob))
}

func TestFileStore_Ping(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Ping())
}

func TestMemStore_RoundTrip(t *testing.T) {
	s := NewMemStore()

	require.NoError(t, s.Set(KeyCart, []byte(`{}`)))
	blob, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(blob))

	require.NoError(t, s.Remove(KeyCart))
	_, err = s.Get(KeyCart)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_FailSet(t *testing.T) {
	s := NewMemStore()
	s.FailSet = errors.New("quota exceeded")

	err := s.Set(KeyCart, []byte(`{}`))
	require.Error(t, err)

	_, err = s.Get(KeyCart)
	require.ErrorIs(t, err, ErrNotFound, "failed set must not store anything")
}

func TestMemStore_CopiesValues(t *testing.T) {
	s := NewMemStore()
	val := []byte(`{"a":1}`)
	require.NoError(t, s.Set(KeyCart, val))

	val[2] = 'x'

	blob, err := s.Get(KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(blob))
}
