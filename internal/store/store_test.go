package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirkoklan/treemend/internal/node"
)

// openTestStore opens a fresh in-memory store.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seed inserts a record and fails the test on error.
func seed(t *testing.T, s *Store, rec node.Record) {
	t.Helper()
	require.NoError(t, s.InsertRecord(context.Background(), rec))
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.db")

	s1, err := Open(path)
	require.NoError(t, err)
	seed(t, s1, node.Record{Identifier: "a", Path: "/sites", Type: "acme:site", Workspace: "live"})
	require.NoError(t, s1.Close())

	// Reopening applies schema and migrations again without clobbering data.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	rec, err := s2.ReadRecord(context.Background(), "live", "/sites")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Identifier)
}

func TestInsertRecord_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed(t, s, node.Record{
		Identifier: "id-1",
		Path:       "/sites/home",
		Type:       "acme:page",
		Workspace:  "live",
		MovedTo:    "id-9",
		Removed:    true,
	})

	rec, err := s.ReadRecord(ctx, "live", "/sites/home")
	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.Identifier)
	assert.Equal(t, "/sites/home", rec.Path)
	assert.Equal(t, "acme:page", rec.Type)
	assert.Equal(t, "live", rec.Workspace)
	assert.Equal(t, "id-9", rec.MovedTo)
	assert.True(t, rec.Removed)
}

func TestInsertRecord_RejectsOccupiedPath(t *testing.T) {
	s := openTestStore(t)

	seed(t, s, node.Record{Identifier: "a", Path: "/sites", Type: "acme:site", Workspace: "live"})
	err := s.InsertRecord(context.Background(), node.Record{Identifier: "b", Path: "/sites", Type: "acme:site", Workspace: "live"})
	assert.Error(t, err)
}

func TestInsertRecord_SamePathDifferentWorkspaces(t *testing.T) {
	s := openTestStore(t)

	seed(t, s, node.Record{Identifier: "a", Path: "/sites", Type: "acme:site", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "b", Path: "/sites", Type: "acme:site", Workspace: "draft"})

	live, err := s.ReadRecord(context.Background(), "live", "/sites")
	require.NoError(t, err)
	draft, err := s.ReadRecord(context.Background(), "draft", "/sites")
	require.NoError(t, err)
	assert.NotEqual(t, live.Identifier, draft.Identifier)
}

func TestReadRecord_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadRecord(context.Background(), "live", "/missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPathExists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed(t, s, node.Record{Identifier: "a", Path: "/sites", Type: "acme:site", Workspace: "live"})

	ok, err := s.PathExists(ctx, "live", "/sites")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.PathExists(ctx, "draft", "/sites")
	require.NoError(t, err)
	assert.False(t, ok)
}
