package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/amirkoklan/treemend/internal/node"
)

// FindEligible returns all node records of the exact type in the exact
// workspace that take part in structural repair.
//
// Eligibility: moved_to IS NULL OR removed = 0, the SQL form of
// node.Record.Eligible. The two encodings are held together by test;
// the rationale for the asymmetric rule lives on the method.
//
// Results are ordered by path for deterministic repair output.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) FindEligible(ctx context.Context, nodeType, workspace string) ([]node.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier, path, node_type, workspace, moved_to, removed
		FROM nodes
		WHERE node_type = ? AND workspace = ?
		  AND (moved_to IS NULL OR removed = 0)
		ORDER BY path ASC
	`, nodeType, workspace)
	if err != nil {
		return nil, fmt.Errorf("query eligible nodes: %w", err)
	}
	defer rows.Close()

	records := []node.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate eligible nodes: %w", err)
	}

	return records, nil
}

// ReadRecord retrieves a single node record by workspace and path.
// Returns sql.ErrNoRows if no record exists there.
func (s *Store) ReadRecord(ctx context.Context, workspace, path string) (node.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT identifier, path, node_type, workspace, moved_to, removed
		FROM nodes
		WHERE workspace = ? AND path = ?
	`, workspace, path)

	var rec node.Record
	var movedTo sql.NullString
	if err := row.Scan(&rec.Identifier, &rec.Path, &rec.Type, &rec.Workspace, &movedTo, &rec.Removed); err != nil {
		return node.Record{}, err
	}
	rec.MovedTo = movedTo.String
	return rec, nil
}

// PathExists reports whether any record occupies a path in a workspace.
// A move shadow counts: the position is taken either way, since
// (workspace, path) is the primary key.
func (s *Store) PathExists(ctx context.Context, workspace, path string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM nodes WHERE workspace = ? AND path = ?
	`, workspace, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check path %s: %w", path, err)
	}
	return count > 0, nil
}

// HasChild reports whether a child occupies the given slot name under a
// parent path in a workspace.
func (s *Store) HasChild(ctx context.Context, workspace, parentPath, name string) (bool, error) {
	return s.PathExists(ctx, workspace, node.ChildPath(parentPath, name))
}

// CountNodes returns the number of records in a workspace.
// Used by tests to assert that dry runs leave the store untouched.
func (s *Store) CountNodes(ctx context.Context, workspace string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM nodes WHERE workspace = ?
	`, workspace).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return count, nil
}

// scanRecord scans a row into a node.Record.
func scanRecord(rows *sql.Rows) (node.Record, error) {
	var rec node.Record
	var movedTo sql.NullString

	if err := rows.Scan(&rec.Identifier, &rec.Path, &rec.Type, &rec.Workspace, &movedTo, &rec.Removed); err != nil {
		return node.Record{}, fmt.Errorf("scan node record: %w", err)
	}

	rec.MovedTo = movedTo.String
	return rec, nil
}
