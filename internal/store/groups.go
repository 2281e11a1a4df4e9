package store

import (
	"context"
	"database/sql"
	"fmt"
)

// GroupRecord is one capture group as stored, for listing and inspection.
type GroupRecord struct {
	ID             string
	SequenceNumber int64
	Status         string
	PointX         int
	PointY         int
	PointLabel     string
	CreatedAt      string
	ArtifactCount  int
}

// ArtifactRecord is one stored artifact row.
type ArtifactRecord struct {
	Kind            string
	Filename        string
	PreviewFilename string
	SizeBytes       int64
	CreatedAt       string
}

// ListGroups returns the most recent capture groups, newest first. limit <= 0
// returns everything.
func (s *Store) ListGroups(ctx context.Context, limit int) ([]GroupRecord, error) {
	ctx = ensureContext(ctx)
	query := `SELECT g.id, g.sequence_number, g.status,
	                 COALESCE(g.point_x, 0), COALESCE(g.point_y, 0), COALESCE(g.point_label, ''),
	                 g.created_at,
	                 (SELECT COUNT(1) FROM artifacts a WHERE a.group_id = g.id)
	          FROM capture_groups g
	          ORDER BY g.sequence_number DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupRecord
	for rows.Next() {
		var g GroupRecord
		if err := rows.Scan(&g.ID, &g.SequenceNumber, &g.Status, &g.PointX, &g.PointY, &g.PointLabel, &g.CreatedAt, &g.ArtifactCount); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GroupArtifacts returns the artifacts stored for one group.
func (s *Store) GroupArtifacts(ctx context.Context, groupID string) ([]ArtifactRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, filename, COALESCE(preview_filename, ''), size_bytes, created_at
		 FROM artifacts WHERE group_id = ? ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []ArtifactRecord
	for rows.Next() {
		var a ArtifactRecord
		if err := rows.Scan(&a.Kind, &a.Filename, &a.PreviewFilename, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// LastSequence returns the highest assigned sequence number, or zero for a
// fresh store.
func (s *Store) LastSequence(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		"SELECT MAX(sequence_number) FROM capture_groups").Scan(&seq); err != nil {
		return 0, fmt.Errorf("read last sequence: %w", err)
	}
	return seq.Int64, nil
}
