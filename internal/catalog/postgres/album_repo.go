// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/internal/catalog"
)

// AlbumRepository implements catalog.AlbumRepository using PostgreSQL.
type AlbumRepository struct {
	pool poolIface
}

// NewAlbumRepository creates a new AlbumRepository.
func NewAlbumRepository(pool poolIface) *AlbumRepository {
	return &AlbumRepository{pool: pool}
}

// Create persists a new album.
// Callers must validate the album before calling this method.
func (r *AlbumRepository) Create(ctx context.Context, album *catalog.Album) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO albums (id, title, description, cover, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, album.ID.String(), album.Title, album.Description, album.Cover, album.CreatedAt)
	if err != nil {
		return oops.Code("ALBUM_CREATE_FAILED").With("id", album.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves an album by ID.
func (r *AlbumRepository) Get(ctx context.Context, id ulid.ULID) (*catalog.Album, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, cover, created_at
		FROM albums WHERE id = $1
	`, id.String())
	album, err := scanAlbum(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ALBUM_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("album"))
	}
	if err != nil {
		return nil, oops.Code("ALBUM_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return album, nil
}

// List returns all albums ordered by creation time.
func (r *AlbumRepository) List(ctx context.Context) ([]*catalog.Album, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, cover, created_at
		FROM albums ORDER BY created_at
	`)
	if err != nil {
		return nil, oops.Code("ALBUM_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var albums []*catalog.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, oops.Code("ALBUM_LIST_FAILED").With("operation", "scan album row").Wrap(err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ALBUM_LIST_FAILED").With("operation", "iterate albums").Wrap(err)
	}
	return albums, nil
}

// Update modifies an existing album's fields. Cover and creation time
// are left alone; cover changes go through SetCover.
func (r *AlbumRepository) Update(ctx context.Context, album *catalog.Album) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE albums SET title = $2, description = $3 WHERE id = $1
	`, album.ID.String(), album.Title, album.Description)
	if err != nil {
		return oops.Code("ALBUM_UPDATE_FAILED").With("id", album.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ALBUM_NOT_FOUND").With("id", album.ID.String()).Wrap(apperr.NotFound("album"))
	}
	return nil
}

// Delete removes an album. Joins the active transaction when cascade
// delete drives it.
func (r *AlbumRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := execerFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM albums WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("ALBUM_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ALBUM_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("album"))
	}
	return nil
}

// SetCover replaces only the cover URI.
func (r *AlbumRepository) SetCover(ctx context.Context, id ulid.ULID, uri string) error {
	result, err := r.pool.Exec(ctx, `UPDATE albums SET cover = $2 WHERE id = $1`, id.String(), uri)
	if err != nil {
		return oops.Code("ALBUM_SET_COVER_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ALBUM_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("album"))
	}
	return nil
}

// scanAlbum scans a single row into an Album.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAlbum(row pgx.Row) (*catalog.Album, error) {
	var (
		idStr       string
		title       string
		description string
		cover       string
		createdAt   time.Time
	)
	err := row.Scan(&idStr, &title, &description, &cover, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ALBUM_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ALBUM_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &catalog.Album{
		ID:          id,
		Title:       title,
		Description: description,
		Cover:       cover,
		CreatedAt:   createdAt,
	}, nil
}

// Compile-time interface check.
var _ catalog.AlbumRepository = (*AlbumRepository)(nil)
