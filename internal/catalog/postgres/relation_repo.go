// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package postgres

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/catalog"
)

// edgeTable describes the join table backing one edge kind and which
// column each entity type maps to.
type edgeTable struct {
	name    string
	columns map[catalog.EntityType]string
}

// The three join tables. Each is the sole source of truth for its edge
// kind.
var edgeTables = []edgeTable{
	{name: "artist_tracks", columns: map[catalog.EntityType]string{
		catalog.EntityArtist: "artist_id",
		catalog.EntityTrack:  "track_id",
	}},
	{name: "artist_albums", columns: map[catalog.EntityType]string{
		catalog.EntityArtist: "artist_id",
		catalog.EntityAlbum:  "album_id",
	}},
	{name: "album_tracks", columns: map[catalog.EntityType]string{
		catalog.EntityAlbum: "album_id",
		catalog.EntityTrack: "track_id",
	}},
}

// tableFor resolves the join table for a pair of refs and the columns
// their IDs belong in.
func tableFor(a, b catalog.Ref) (table string, colA, colB string, err error) {
	for _, et := range edgeTables {
		ca, okA := et.columns[a.Type]
		cb, okB := et.columns[b.Type]
		if okA && okB && a.Type != b.Type {
			return et.name, ca, cb, nil
		}
	}
	return "", "", "", oops.Code("RELATION_BAD_PAIR").
		With("type_a", string(a.Type)).
		With("type_b", string(b.Type)).
		Errorf("no edge kind connects %q and %q", a.Type, b.Type)
}

// RelationRepository implements catalog.RelationRepository using the
// three PostgreSQL join tables.
type RelationRepository struct {
	pool poolIface
}

// NewRelationRepository creates a new RelationRepository.
func NewRelationRepository(pool poolIface) *RelationRepository {
	return &RelationRepository{pool: pool}
}

// Link records an edge. ON CONFLICT DO NOTHING makes relinking an
// existing pair a no-op.
func (r *RelationRepository) Link(ctx context.Context, a, b catalog.Ref) error {
	table, colA, colB, err := tableFor(a, b)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		table, colA, colB)
	_, err = execerFromCtx(ctx, r.pool).Exec(ctx, query, a.ID.String(), b.ID.String())
	if err != nil {
		return oops.Code("RELATION_LINK_FAILED").
			With("table", table).
			With("id_a", a.ID.String()).
			With("id_b", b.ID.String()).
			Wrap(err)
	}
	return nil
}

// Unlink removes an edge. Removing an absent edge is a no-op.
func (r *RelationRepository) Unlink(ctx context.Context, a, b catalog.Ref) error {
	table, colA, colB, err := tableFor(a, b)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table, colA, colB)
	_, err = execerFromCtx(ctx, r.pool).Exec(ctx, query, a.ID.String(), b.ID.String())
	if err != nil {
		return oops.Code("RELATION_UNLINK_FAILED").
			With("table", table).
			With("id_a", a.ID.String()).
			With("id_b", b.ID.String()).
			Wrap(err)
	}
	return nil
}

// RelatedIDs returns the IDs of entities of the given type linked to ref.
func (r *RelationRepository) RelatedIDs(ctx context.Context, ref catalog.Ref, other catalog.EntityType) ([]ulid.ULID, error) {
	table, refCol, otherCol, err := tableFor(ref, catalog.Ref{Type: other})
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, otherCol, table, refCol)
	rows, err := execerFromCtx(ctx, r.pool).Query(ctx, query, ref.ID.String())
	if err != nil {
		return nil, oops.Code("RELATION_QUERY_FAILED").
			With("table", table).
			With("id", ref.ID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var ids []ulid.ULID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, oops.Code("RELATION_QUERY_FAILED").
				With("operation", "scan related id").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("RELATION_INVALID_ID").With("id", idStr).Wrap(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("RELATION_QUERY_FAILED").
			With("operation", "iterate related ids").
			Wrap(err)
	}
	return ids, nil
}

// DeleteAllFor removes every edge incident to ref across all edge
// kinds. Runs inside the caller's transaction when one is active, which
// is how cascade delete keeps the graph consistent.
func (r *RelationRepository) DeleteAllFor(ctx context.Context, ref catalog.Ref) error {
	exec := execerFromCtx(ctx, r.pool)
	for _, et := range edgeTables {
		col, ok := et.columns[ref.Type]
		if !ok {
			continue
		}
		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, et.name, col)
		if _, err := exec.Exec(ctx, query, ref.ID.String()); err != nil {
			return oops.Code("RELATION_CASCADE_FAILED").
				With("table", et.name).
				With("id", ref.ID.String()).
				Wrap(err)
		}
	}
	return nil
}

// Compile-time interface check.
var _ catalog.RelationRepository = (*RelationRepository)(nil)
