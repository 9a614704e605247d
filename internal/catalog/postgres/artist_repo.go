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

// ArtistRepository implements catalog.ArtistRepository using PostgreSQL.
type ArtistRepository struct {
	pool poolIface
}

// NewArtistRepository creates a new ArtistRepository.
func NewArtistRepository(pool poolIface) *ArtistRepository {
	return &ArtistRepository{pool: pool}
}

// Create persists a new artist.
// Callers must validate the artist before calling this method.
func (r *ArtistRepository) Create(ctx context.Context, artist *catalog.Artist) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO artists (id, nickname, first_name, last_name, birth_date, photo, bio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, artist.ID.String(), artist.Nickname, artist.FirstName, artist.LastName,
		artist.BirthDate, artist.Photo, artist.Bio, artist.CreatedAt)
	if err != nil {
		return oops.Code("ARTIST_CREATE_FAILED").With("id", artist.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves an artist by ID.
func (r *ArtistRepository) Get(ctx context.Context, id ulid.ULID) (*catalog.Artist, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, nickname, first_name, last_name, birth_date, photo, bio, created_at
		FROM artists WHERE id = $1
	`, id.String())
	artist, err := scanArtist(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ARTIST_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("artist"))
	}
	if err != nil {
		return nil, oops.Code("ARTIST_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return artist, nil
}

// List returns all artists ordered by creation time.
func (r *ArtistRepository) List(ctx context.Context) ([]*catalog.Artist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nickname, first_name, last_name, birth_date, photo, bio, created_at
		FROM artists ORDER BY created_at
	`)
	if err != nil {
		return nil, oops.Code("ARTIST_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var artists []*catalog.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, oops.Code("ARTIST_LIST_FAILED").With("operation", "scan artist row").Wrap(err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ARTIST_LIST_FAILED").With("operation", "iterate artists").Wrap(err)
	}
	return artists, nil
}

// Update modifies an existing artist's profile fields. Photo and
// creation time are left alone; photo changes go through SetPhoto.
func (r *ArtistRepository) Update(ctx context.Context, artist *catalog.Artist) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE artists SET nickname = $2, first_name = $3, last_name = $4, birth_date = $5, bio = $6
		WHERE id = $1
	`, artist.ID.String(), artist.Nickname, artist.FirstName, artist.LastName, artist.BirthDate, artist.Bio)
	if err != nil {
		return oops.Code("ARTIST_UPDATE_FAILED").With("id", artist.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ARTIST_NOT_FOUND").With("id", artist.ID.String()).Wrap(apperr.NotFound("artist"))
	}
	return nil
}

// Delete removes an artist. Joins the active transaction when cascade
// delete drives it.
func (r *ArtistRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := execerFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM artists WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("ARTIST_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ARTIST_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("artist"))
	}
	return nil
}

// SetPhoto replaces only the photo URI.
func (r *ArtistRepository) SetPhoto(ctx context.Context, id ulid.ULID, uri string) error {
	result, err := r.pool.Exec(ctx, `UPDATE artists SET photo = $2 WHERE id = $1`, id.String(), uri)
	if err != nil {
		return oops.Code("ARTIST_SET_PHOTO_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ARTIST_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("artist"))
	}
	return nil
}

// scanArtist scans a single row into an Artist.
// Callers are responsible for handling pgx.ErrNoRows.
func scanArtist(row pgx.Row) (*catalog.Artist, error) {
	var (
		idStr     string
		nickname  string
		firstName string
		lastName  string
		birthDate *time.Time
		photo     string
		bio       string
		createdAt time.Time
	)
	err := row.Scan(&idStr, &nickname, &firstName, &lastName, &birthDate, &photo, &bio, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ARTIST_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ARTIST_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &catalog.Artist{
		ID:        id,
		Nickname:  nickname,
		FirstName: firstName,
		LastName:  lastName,
		BirthDate: birthDate,
		Photo:     photo,
		Bio:       bio,
		CreatedAt: createdAt,
	}, nil
}

// Compile-time interface check.
var _ catalog.ArtistRepository = (*ArtistRepository)(nil)
