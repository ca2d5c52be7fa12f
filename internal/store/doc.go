// Package store persists content-repository node records in SQLite.
//
// One row per node record per workspace. The (workspace, path) primary
// key makes a node's position unique within its workspace, so creating a
// child at an occupied slot fails with an ordinary constraint error
// instead of silently duplicating tree structure.
//
// The store also implements the node.Factory contract: it materializes
// persisted records into live nodes that can look up and create children.
// Creation of a node includes the auto-created children its type
// declares, in one transaction, so a freshly created subtree is already
// structurally complete.
package store
