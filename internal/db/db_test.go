package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/db/testutil"
	"github.com/noteful/noteful/internal/testdb"
)

func TestOpenCreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "noteful.db")

	store, err := db.Open(path, db.Options{})
	require.NoError(t, err)
	defer store.Close()

	// Schema applied: core tables queryable.
	var count int
	err = store.DB().QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpenWithEncryptionKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc.db")
	key := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	store, err := db.Open(path, db.Options{Key: key})
	require.NoError(t, err)

	_, err = store.DB().Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)",
		uuid.New().String(), "alice", "x")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopen with the right key works.
	store, err = db.Open(path, db.Options{Key: key})
	require.NoError(t, err)
	var count int
	require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
	store.Close()

	// Wrong key fails at open.
	wrong := "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	_, err = db.Open(path, db.Options{Key: wrong})
	assert.Error(t, err)
}

func TestOpenRejectsShortKey(t *testing.T) {
	_, err := db.Open(filepath.Join(t.TempDir(), "x.db"), db.Options{Key: "abcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64 hex characters")
}

func TestIsDuplicateKey(t *testing.T) {
	store, err := testdb.NewStoreInMemory()
	require.NoError(t, err)
	defer store.Close()

	_, err = store.DB().Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)",
		uuid.New().String(), "alice", "x")
	require.NoError(t, err)

	_, err = store.DB().Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)",
		uuid.New().String(), "alice", "x")
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(err))

	assert.False(t, db.IsDuplicateKey(context.Canceled))
	assert.False(t, db.IsDuplicateKey(nil))
}

func TestEscapeFTSQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello*"},
		{"hello world", "hello* world*"},
		{"Gaga", "gaga*"},
		{`"exact phrase"`, `"exact phrase"`},
		{`"unterminated`, `"unterminated"`},
		{"drop;table", "droptable*"},
		{"", ""},
		{"   ", ""},
		{`"" ()`, ""},
		{"AND", "and*"},
		{"café", "café*"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, db.EscapeFTSQuery(tc.in), "input %q", tc.in)
	}
}

// Whatever the user types, the escaped query must never produce an FTS5
// syntax error.
func TestEscapeFTSQueryNeverBreaksMatch(t *testing.T) {
	store, err := testdb.NewStoreInMemory()
	require.NoError(t, err)
	defer store.Close()

	userID := uuid.New().String()
	_, err = store.DB().Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)",
		userID, "alice", "x")
	require.NoError(t, err)
	_, err = store.DB().Exec("INSERT INTO notes (id, title, content, user_id, created_at) VALUES (?, ?, ?, ?, 0)",
		uuid.New().String(), "searchable title", "searchable content", userID)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		raw := testutil.ArbitrarySearchQuery().Draw(t, "query")
		escaped := db.EscapeFTSQuery(raw)
		if escaped == "" {
			return
		}
		rows, err := store.DB().Query(
			"SELECT rowid FROM fts_notes WHERE fts_notes MATCH ?", escaped)
		if err != nil {
			t.Fatalf("escaped query %q (from %q) failed: %v", escaped, raw, err)
		}
		rows.Close()
	})
}

func TestFTSWeightsPreferTitleMatches(t *testing.T) {
	store, err := testdb.NewStoreInMemory()
	require.NoError(t, err)
	defer store.Close()

	userID := uuid.New().String()
	_, err = store.DB().Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)",
		userID, "alice", "x")
	require.NoError(t, err)

	titleHit := uuid.New().String()
	contentHit := uuid.New().String()
	_, err = store.DB().Exec("INSERT INTO notes (id, title, content, user_id, created_at) VALUES (?, ?, ?, ?, 0)",
		contentHit, "unrelated", "gaga appears in the content", userID)
	require.NoError(t, err)
	_, err = store.DB().Exec("INSERT INTO notes (id, title, content, user_id, created_at) VALUES (?, ?, ?, ?, 0)",
		titleHit, "gaga in the title", "unrelated body", userID)
	require.NoError(t, err)

	rows, err := store.DB().Query(`
		SELECT n.id FROM notes n
		JOIN fts_notes f ON n.rowid = f.rowid
		WHERE fts_notes MATCH ?
		ORDER BY bm25(fts_notes, 2.0, 1.0)`, "gaga*")
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		got = append(got, id)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)
	assert.Equal(t, titleHit, got[0], "title match ranks first")
}

func TestFTSIndexFollowsUpdatesAndDeletes(t *testing.T) {
	store, err := testdb.NewStoreInMemory()
	require.NoError(t, err)
	defer store.Close()

	userID := uuid.New().String()
	_, err = store.DB().Exec("INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)",
		userID, "alice", "x")
	require.NoError(t, err)

	noteID := uuid.New().String()
	_, err = store.DB().Exec("INSERT INTO notes (id, title, content, user_id, created_at) VALUES (?, ?, ?, ?, 0)",
		noteID, "wombat", "", userID)
	require.NoError(t, err)

	countMatches := func(q string) int {
		var n int
		require.NoError(t, store.DB().QueryRow(
			"SELECT COUNT(*) FROM fts_notes WHERE fts_notes MATCH ?", q).Scan(&n))
		return n
	}

	assert.Equal(t, 1, countMatches("wombat"))

	_, err = store.DB().Exec("UPDATE notes SET title = ? WHERE id = ?", "capuchin", noteID)
	require.NoError(t, err)
	assert.Equal(t, 0, countMatches("wombat"))
	assert.Equal(t, 1, countMatches("capuchin"))

	_, err = store.DB().Exec("DELETE FROM notes WHERE id = ?", noteID)
	require.NoError(t, err)
	assert.Equal(t, 0, countMatches("capuchin"))
}
