package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirkoklan/treemend/internal/node"
	"github.com/amirkoklan/treemend/internal/schema"
	"github.com/amirkoklan/treemend/internal/testutil"
)

func TestFactory_MaterializesResolvableRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	registry := testutil.MustRegistry(t, &schema.NodeType{Name: "acme:page"})
	factory := NewFactory(s, registry, node.NewFixedGenerator())

	seed(t, s, node.Record{Identifier: "r", Path: "/sites", Type: "acme:site", Workspace: "live"})
	rec := node.Record{Identifier: "p", Path: "/sites/home", Type: "acme:page", Workspace: "live"}
	seed(t, s, rec)

	live, err := factory.Materialize(ctx, rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, "/sites/home", live.Path())
}

func TestFactory_RootRecordIsResolvable(t *testing.T) {
	s := openTestStore(t)
	registry := testutil.MustRegistry(t, &schema.NodeType{Name: "acme:site"})
	factory := NewFactory(s, registry, node.NewFixedGenerator())

	// The root has no parent; it never needs one to resolve.
	rec := node.Record{Identifier: "r", Path: "/", Type: "acme:site", Workspace: "live"}
	seed(t, s, rec)

	live, err := factory.Materialize(context.Background(), rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestFactory_TopLevelRecordNeedsRootRow(t *testing.T) {
	s := openTestStore(t)
	registry := testutil.MustRegistry(t, &schema.NodeType{Name: "acme:site"})
	factory := NewFactory(s, registry, node.NewFixedGenerator())

	rec := node.Record{Identifier: "r", Path: "/sites", Type: "acme:site", Workspace: "live"}
	seed(t, s, rec)

	live, err := factory.Materialize(context.Background(), rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	assert.Nil(t, live, "top-level record without a root row is an orphan")

	seed(t, s, node.Record{Identifier: "root", Path: "/", Type: "acme:site", Workspace: "live"})
	live, err = factory.Materialize(context.Background(), rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	assert.NotNil(t, live)
}

func TestFactory_OrphanIsUnresolvable(t *testing.T) {
	s := openTestStore(t)
	registry := testutil.MustRegistry(t, &schema.NodeType{Name: "acme:page"})
	factory := NewFactory(s, registry, node.NewFixedGenerator())

	// No record at /sites: this one dangles.
	rec := node.Record{Identifier: "p", Path: "/sites/home", Type: "acme:page", Workspace: "live"}
	seed(t, s, rec)

	live, err := factory.Materialize(context.Background(), rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	assert.Nil(t, live, "orphaned record must not materialize")
}

func TestFactory_WorkspaceMismatchIsUnresolvable(t *testing.T) {
	s := openTestStore(t)
	registry := testutil.MustRegistry(t, &schema.NodeType{Name: "acme:page"})
	factory := NewFactory(s, registry, node.NewFixedGenerator())

	rec := node.Record{Identifier: "p", Path: "/sites", Type: "acme:site", Workspace: "draft"}
	seed(t, s, rec)

	live, err := factory.Materialize(context.Background(), rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	assert.Nil(t, live)
}

func TestLiveNode_HasChildAndCreateChild(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	registry := testutil.MustRegistry(t,
		&schema.NodeType{Name: "acme:page"},
		&schema.NodeType{Name: "acme:collection"},
	)
	collection, _ := registry.Lookup("acme:collection")
	factory := NewFactory(s, registry, node.NewFixedGenerator("new-child"))

	seed(t, s, node.Record{Identifier: "root", Path: "/", Type: "acme:collection", Workspace: "live"})
	rec := node.Record{Identifier: "p", Path: "/home", Type: "acme:page", Workspace: "live"}
	seed(t, s, rec)

	live, err := factory.Materialize(ctx, rec, node.FullAccessContext("live"))
	require.NoError(t, err)
	require.NotNil(t, live)

	ok, err := live.HasChild(ctx, "main")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, live.CreateChild(ctx, "main", collection))

	ok, err = live.HasChild(ctx, "main")
	require.NoError(t, err)
	assert.True(t, ok)

	created, err := s.ReadRecord(ctx, "live", "/home/main")
	require.NoError(t, err)
	assert.Equal(t, "new-child", created.Identifier)
	assert.Equal(t, "acme:collection", created.Type)
}
