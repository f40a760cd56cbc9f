package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates repositories backed by a temporary sqlite file
func setupTestDB(t *testing.T) (repos *Repositories, cleanup func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := Config{
		DSN:          "file:" + dbPath + "?_txlock=immediate&_pragma=busy_timeout(5000)",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	return repos, func() { assert.NoError(t, repos.Close()) }
}

func TestNewRepositories(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repos.Ping(context.Background()))
	require.NotNil(t, repos.Item)

	var count int
	err := repos.DB.Get(&count, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var mode string
	require.NoError(t, repos.DB.Get(&mode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", mode)
}

func TestNewRepositories_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	cfg := Config{DSN: "file:" + dbPath}

	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	_, err = repos.DB.Exec("INSERT INTO items (id, title, link) VALUES ('a', 't', 'https://example.com/a')")
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	// schema creation is idempotent and data survives
	repos, err = NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.Close()
	count, err := repos.Item.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNewRepositories_InitRetriesExhausted(t *testing.T) {
	cfg := Config{
		DSN:         "file:" + filepath.Join(t.TempDir(), "no", "such", "dir", "x.db") + "?mode=rw",
		InitRetries: 3,
		InitDelay:   10 * time.Millisecond,
	}
	st := time.Now()
	repos, err := NewRepositories(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, repos)
	assert.Contains(t, err.Error(), "init database after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(st), 20*time.Millisecond)
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", assert.AnError, false},
		{"sqlite busy", errString("SQLITE_BUSY: database busy"), true},
		{"locked", errString("database is locked (5)"), true},
		{"table locked", errString("database table is locked"), true},
		{"constraint", errString("UNIQUE constraint failed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLockError(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	lockErr := errString("database is locked")
	assert.Equal(t, lockErr, classify(lockErr))

	err := classify(assert.AnError)
	require.ErrorIs(t, err, errCritical)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, assert.AnError.Error(), err.Error())
}

func TestItemRepository_Retry(t *testing.T) {
	r := NewItemRepository(nil)
	ctx := context.Background()

	t.Run("lock error retried until success", func(t *testing.T) {
		calls := 0
		err := r.retry(ctx, "test op", "key", func() error {
			calls++
			if calls < 3 {
				return errString("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("lock error exhausts attempts", func(t *testing.T) {
		calls := 0
		err := r.retry(ctx, "test op", "key", func() error {
			calls++
			return errString("database is locked")
		})
		require.Error(t, err)
		assert.Equal(t, 5, calls)
		assert.Contains(t, err.Error(), "test op")
		assert.Contains(t, err.Error(), "database is locked")
	})

	t.Run("other errors stop at first attempt", func(t *testing.T) {
		calls := 0
		err := r.retry(ctx, "test op", "key", func() error {
			calls++
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, calls)
	})
}

type errString string

func (e errString) Error() string { return string(e) }
