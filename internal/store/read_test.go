package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirkoklan/treemend/internal/node"
)

func eligiblePaths(t *testing.T, s *Store, nodeType, workspace string) []string {
	t.Helper()
	records, err := s.FindEligible(context.Background(), nodeType, workspace)
	require.NoError(t, err)
	paths := []string{}
	for _, rec := range records {
		paths = append(paths, rec.Path)
	}
	return paths
}

func TestFindEligible_FiltersByTypeAndWorkspace(t *testing.T) {
	s := openTestStore(t)

	seed(t, s, node.Record{Identifier: "a", Path: "/a", Type: "acme:page", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "b", Path: "/b", Type: "acme:collection", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "c", Path: "/c", Type: "acme:page", Workspace: "draft"})

	assert.Equal(t, []string{"/a"}, eligiblePaths(t, s, "acme:page", "live"))
}

func TestFindEligible_EligibilityMarkers(t *testing.T) {
	s := openTestStore(t)

	seed(t, s, node.Record{Identifier: "plain", Path: "/plain", Type: "acme:page", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "removed", Path: "/removed", Type: "acme:page", Workspace: "live", Removed: true})
	seed(t, s, node.Record{Identifier: "shadow", Path: "/shadow", Type: "acme:page", Workspace: "live", MovedTo: "target", Removed: true})

	// A removed record without a move marker is still checked; a move
	// shadow is not.
	assert.Equal(t, []string{"/plain", "/removed"}, eligiblePaths(t, s, "acme:page", "live"))
}

func TestFindEligible_AgreesWithRecordEligible(t *testing.T) {
	// The SQL predicate and node.Record.Eligible encode the same rule;
	// seed every marker combination and hold them together.
	s := openTestStore(t)

	// In path order, matching the query's ORDER BY.
	all := []node.Record{
		{Identifier: "1", Path: "/moved", Type: "acme:page", Workspace: "live", MovedTo: "target"},
		{Identifier: "2", Path: "/plain", Type: "acme:page", Workspace: "live"},
		{Identifier: "3", Path: "/removed", Type: "acme:page", Workspace: "live", Removed: true},
		{Identifier: "4", Path: "/shadow", Type: "acme:page", Workspace: "live", MovedTo: "target", Removed: true},
	}
	expected := []string{}
	for _, rec := range all {
		seed(t, s, rec)
		if rec.Eligible() {
			expected = append(expected, rec.Path)
		}
	}

	assert.Equal(t, expected, eligiblePaths(t, s, "acme:page", "live"))
}

func TestFindEligible_OrderedByPath(t *testing.T) {
	s := openTestStore(t)

	seed(t, s, node.Record{Identifier: "c", Path: "/c", Type: "acme:page", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "a", Path: "/a", Type: "acme:page", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "b", Path: "/b", Type: "acme:page", Workspace: "live"})

	assert.Equal(t, []string{"/a", "/b", "/c"}, eligiblePaths(t, s, "acme:page", "live"))
}

func TestFindEligible_EmptyResultIsNotNil(t *testing.T) {
	s := openTestStore(t)

	records, err := s.FindEligible(context.Background(), "acme:page", "live")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestHasChild(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed(t, s, node.Record{Identifier: "p", Path: "/sites/home", Type: "acme:page", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "m", Path: "/sites/home/main", Type: "acme:collection", Workspace: "live"})

	ok, err := s.HasChild(ctx, "live", "/sites/home", "main")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasChild(ctx, "live", "/sites/home", "footer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountNodes(t *testing.T) {
	s := openTestStore(t)

	seed(t, s, node.Record{Identifier: "a", Path: "/a", Type: "acme:page", Workspace: "live"})
	seed(t, s, node.Record{Identifier: "b", Path: "/b", Type: "acme:page", Workspace: "draft"})

	count, err := s.CountNodes(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
