package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stempel/stempel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("quarantines an unreadable file and starts empty", func(t *testing.T) {
		// given a store file that is not a SQLite database
		path := filepath.Join(t.TempDir(), "stempel.db")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a database"), 0o644))

		// when
		db, err := Open(config.Database{Path: path})

		// then the engine comes up on a fresh store
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		quarantined, err := filepath.Glob(path + ".corrupt-*")
		require.NoError(t, err)
		require.Len(t, quarantined, 1)

		// and the fresh store accepts migrations and writes
		require.NoError(t, Migrate(db))
		_, err = db.Exec("INSERT INTO clock_event (uid, time_unix, kind, generated) VALUES (?, ?, ?, ?)",
			"uid-1", 1700000000, "open", 0)
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM clock_event").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("keeps a healthy file in place", func(t *testing.T) {
		// given a store written by a previous run
		path := filepath.Join(t.TempDir(), "stempel.db")
		db, err := Open(config.Database{Path: path})
		require.NoError(t, err)
		require.NoError(t, Migrate(db))
		_, err = db.Exec("INSERT INTO clock_event (uid, time_unix, kind, generated) VALUES (?, ?, ?, ?)",
			"uid-1", 1700000000, "open", 0)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		// when it is opened again
		db, err = Open(config.Database{Path: path})

		// then history survives and nothing was quarantined
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		quarantined, err := filepath.Glob(path + ".corrupt-*")
		require.NoError(t, err)
		assert.Empty(t, quarantined)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM clock_event").Scan(&count))
		assert.Equal(t, 1, count)
	})
}
