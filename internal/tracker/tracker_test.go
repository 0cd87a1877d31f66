package tracker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleseneker/rating-prompt/internal/logging"
)

// failingStore returns errors from every operation.
type failingStore struct{}

var errBackend = errors.New("backend unavailable")

func (failingStore) Get(string) (string, bool, error) { return "", false, errBackend }
func (failingStore) Set(string, string) error         { return errBackend }
func (failingStore) Clear() error                     { return errBackend }
func (failingStore) Close() error                     { return nil }

func newStores(t *testing.T) map[string]Store {
	fileStore, err := NewFileStore(t.TempDir(), "test")
	require.NoError(t, err)
	sqliteStore, err := NewSqlStore(DialectSQLite, filepath.Join(t.TempDir(), "prefs.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestUsageTracker(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			usage := NewUsageTracker(store, logging.Discard())

			t.Run("Defaults", func(t *testing.T) {
				rec := usage.Record()
				assert.False(t, rec.HasRated)
				assert.False(t, rec.NeverRemindAgain)
				assert.False(t, rec.HasFirstLaunch())
				assert.Equal(t, 0, rec.LaunchCount)
			})

			t.Run("Write Then Read", func(t *testing.T) {
				first := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
				usage.SetHasRated(true)
				usage.SetNeverRemindAgain(true)
				usage.SetFirstLaunch(first)
				usage.SetLaunchCount(4)

				rec := usage.Record()
				assert.True(t, rec.HasRated)
				assert.True(t, rec.NeverRemindAgain)
				assert.True(t, rec.FirstLaunch.Equal(first))
				assert.Equal(t, 4, rec.LaunchCount)
			})

			t.Run("Negative Launch Count Clamped", func(t *testing.T) {
				usage.SetLaunchCount(-3)
				assert.Equal(t, 0, usage.LaunchCount())
			})

			t.Run("Reset Restores Defaults", func(t *testing.T) {
				usage.SetHasRated(true)
				usage.SetLaunchCount(9)
				usage.Reset()

				rec := usage.Record()
				assert.Equal(t, UsageRecord{}, rec)
			})
		})
	}
}

func TestUsageTracker_SwallowsBackendErrors(t *testing.T) {
	usage := NewUsageTracker(failingStore{}, logging.Discard())

	assert.NotPanics(t, func() {
		usage.SetHasRated(true)
		usage.SetLaunchCount(3)
		usage.Reset()
	})
	assert.Equal(t, UsageRecord{}, usage.Record())
}

func TestUsageTracker_MalformedValuesFallBack(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(KeyUserHasRated, "maybe"))
	require.NoError(t, store.Set(KeyLaunchCount, "lots"))
	require.NoError(t, store.Set(KeyFirstStartDate, "-1"))

	usage := NewUsageTracker(store, logging.Discard())
	assert.False(t, usage.HasRated())
	assert.Equal(t, 0, usage.LaunchCount())
	_, ok := usage.FirstLaunch()
	assert.False(t, ok)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFileStore(dir, "ns")
	require.NoError(t, err)
	require.NoError(t, s1.Set(KeyLaunchCount, "7"))
	assert.Equal(t, filepath.Join(dir, "ns.json"), s1.Path())

	s2, err := NewFileStore(dir, "ns")
	require.NoError(t, err)
	v, ok, err := s2.Get(KeyLaunchCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	other, err := NewFileStore(dir, "other")
	require.NoError(t, err)
	_, ok, err = other.Get(KeyLaunchCount)
	require.NoError(t, err)
	assert.False(t, ok, "namespaces must not share keys")
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ns.json"), []byte("{not json"), 0644))

	_, err := NewFileStore(dir, "ns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load preferences")
}

func TestSqlStore_NamespaceIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	a, err := NewSqlStore(DialectSQLite, path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSqlStore(DialectSQLite, path, "b")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Set(KeyUserHasRated, "true"))
	require.NoError(t, a.Set(KeyUserHasRated, "false"))
	require.NoError(t, b.Set(KeyUserHasRated, "true"))

	v, ok, err := a.Get(KeyUserHasRated)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", v)

	require.NoError(t, a.Clear())
	_, ok, err = a.Get(KeyUserHasRated)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = b.Get(KeyUserHasRated)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestNewSqlStore_UnsupportedDialect(t *testing.T) {
	_, err := NewSqlStore("oracle", "dsn", "ns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported SQL dialect")
}
