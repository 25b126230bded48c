package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/keshon/sentinel/datastore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "configs.json")
	ds, err := datastore.New(path)
	require.NoError(t, err)
	s, err := New(ds, "!")
	require.NoError(t, err)
	return s, path
}

func TestPrefixDefaultsAndIsolation(t *testing.T) {
	s, _ := newFileStorage(t)

	assert.Equal(t, "!", s.Prefix("guild-a"))
	assert.Equal(t, "!", s.Prefix(""))

	require.NoError(t, s.SetPrefix("guild-a", "?"))
	assert.Equal(t, "?", s.Prefix("guild-a"))
	assert.Equal(t, "!", s.Prefix("guild-b"))
}

func TestSetPrefixRejectsEmpty(t *testing.T) {
	s, _ := newFileStorage(t)
	require.NoError(t, s.SetPrefix("guild-a", "?"))

	for _, p := range []string{"", "   "} {
		err := s.SetPrefix("guild-a", p)
		assert.ErrorIs(t, err, ErrEmptyPrefix)
	}
	assert.Equal(t, "?", s.Prefix("guild-a"))
}

func TestSetPrefixPersistsFullDocument(t *testing.T) {
	s, path := newFileStorage(t)
	require.NoError(t, s.SetPrefix("guild-a", "?"))
	require.NoError(t, s.SetPrefix("guild-b", "$"))

	ds, err := datastore.New(path)
	require.NoError(t, err)
	reloaded, err := New(ds, "!")
	require.NoError(t, err)

	assert.Equal(t, "?", reloaded.Prefix("guild-a"))
	assert.Equal(t, "$", reloaded.Prefix("guild-b"))
}

func TestConcurrentSetPrefixLosesNothing(t *testing.T) {
	s, path := newFileStorage(t)

	const guilds = 32
	var wg sync.WaitGroup
	for i := 0; i < guilds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.SetPrefix(fmt.Sprintf("guild-%d", i), fmt.Sprintf("p%d", i)))
		}(i)
	}
	wg.Wait()

	ds, err := datastore.New(path)
	require.NoError(t, err)
	reloaded, err := New(ds, "!")
	require.NoError(t, err)

	for i := 0; i < guilds; i++ {
		assert.Equal(t, fmt.Sprintf("p%d", i), reloaded.Prefix(fmt.Sprintf("guild-%d", i)))
	}
}

type failingPersister struct {
	saves int
}

func (f *failingPersister) Load(v any) error { return nil }
func (f *failingPersister) Save(v any) error {
	f.saves++
	return errors.New("disk full")
}

func TestSetPrefixPersistenceFailureIsNotAcknowledged(t *testing.T) {
	fp := &failingPersister{}
	s, err := New(fp, "!")
	require.NoError(t, err)

	err = s.SetPrefix("guild-a", "?")
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 1, fp.saves)
	assert.Equal(t, "!", s.Prefix("guild-a"), "failed write must not become visible")
	assert.Empty(t, s.Guilds())
}

func TestNewRejectsEmptyDefault(t *testing.T) {
	_, err := New(&failingPersister{}, " ")
	assert.ErrorIs(t, err, ErrEmptyPrefix)
}
