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

// TrackRepository implements catalog.TrackRepository using PostgreSQL.
type TrackRepository struct {
	pool poolIface
}

// NewTrackRepository creates a new TrackRepository.
func NewTrackRepository(pool poolIface) *TrackRepository {
	return &TrackRepository{pool: pool}
}

// Create persists a new track.
// Callers must validate the track before calling this method.
func (r *TrackRepository) Create(ctx context.Context, track *catalog.Track) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tracks (id, title, cover, audio_file, released_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, track.ID.String(), track.Title, track.Cover, track.AudioFile, track.ReleasedAt, track.CreatedAt)
	if err != nil {
		return oops.Code("TRACK_CREATE_FAILED").With("id", track.ID.String()).Wrap(err)
	}
	return nil
}

// Get retrieves a track by ID.
func (r *TrackRepository) Get(ctx context.Context, id ulid.ULID) (*catalog.Track, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, cover, audio_file, released_at, created_at
		FROM tracks WHERE id = $1
	`, id.String())
	track, err := scanTrack(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TRACK_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("track"))
	}
	if err != nil {
		return nil, oops.Code("TRACK_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return track, nil
}

// List returns all tracks ordered by creation time.
func (r *TrackRepository) List(ctx context.Context) ([]*catalog.Track, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, cover, audio_file, released_at, created_at
		FROM tracks ORDER BY created_at
	`)
	if err != nil {
		return nil, oops.Code("TRACK_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var tracks []*catalog.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, oops.Code("TRACK_LIST_FAILED").With("operation", "scan track row").Wrap(err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TRACK_LIST_FAILED").With("operation", "iterate tracks").Wrap(err)
	}
	return tracks, nil
}

// Update modifies an existing track's fields. Cover, audio file, and
// creation time are left alone; asset changes go through SetCover and
// SetAudio.
func (r *TrackRepository) Update(ctx context.Context, track *catalog.Track) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tracks SET title = $2, released_at = $3 WHERE id = $1
	`, track.ID.String(), track.Title, track.ReleasedAt)
	if err != nil {
		return oops.Code("TRACK_UPDATE_FAILED").With("id", track.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TRACK_NOT_FOUND").With("id", track.ID.String()).Wrap(apperr.NotFound("track"))
	}
	return nil
}

// Delete removes a track. Joins the active transaction when cascade
// delete drives it.
func (r *TrackRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := execerFromCtx(ctx, r.pool).Exec(ctx, `DELETE FROM tracks WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("TRACK_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TRACK_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("track"))
	}
	return nil
}

// SetCover replaces only the cover URI.
func (r *TrackRepository) SetCover(ctx context.Context, id ulid.ULID, uri string) error {
	return r.setColumn(ctx, id, "cover", uri, "TRACK_SET_COVER_FAILED")
}

// SetAudio replaces only the audio file URI.
func (r *TrackRepository) SetAudio(ctx context.Context, id ulid.ULID, uri string) error {
	return r.setColumn(ctx, id, "audio_file", uri, "TRACK_SET_AUDIO_FAILED")
}

// setColumn updates a single column by id. The column name comes from a
// fixed set of callers, never from input.
func (r *TrackRepository) setColumn(ctx context.Context, id ulid.ULID, column, value, failCode string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE tracks SET `+column+` = $2 WHERE id = $1`,
		id.String(), value)
	if err != nil {
		return oops.Code(failCode).With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TRACK_NOT_FOUND").With("id", id.String()).Wrap(apperr.NotFound("track"))
	}
	return nil
}

// scanTrack scans a single row into a Track.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTrack(row pgx.Row) (*catalog.Track, error) {
	var (
		idStr      string
		title      string
		cover      string
		audioFile  string
		releasedAt *time.Time
		createdAt  time.Time
	)
	err := row.Scan(&idStr, &title, &cover, &audioFile, &releasedAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TRACK_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TRACK_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &catalog.Track{
		ID:         id,
		Title:      title,
		Cover:      cover,
		AudioFile:  audioFile,
		ReleasedAt: releasedAt,
		CreatedAt:  createdAt,
	}, nil
}

// Compile-time interface check.
var _ catalog.TrackRepository = (*TrackRepository)(nil)
