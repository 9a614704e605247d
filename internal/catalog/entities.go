// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tracklab/tracklab/internal/apperr"
)

// EntityType identifies one of the three catalog entity kinds.
type EntityType string

const (
	EntityArtist EntityType = "artist"
	EntityAlbum  EntityType = "album"
	EntityTrack  EntityType = "track"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityArtist, EntityAlbum, EntityTrack:
		return true
	}
	return false
}

// Ref identifies a catalog entity by type and ID.
type Ref struct {
	Type EntityType
	ID   ulid.ULID
}

// ArtistRef builds a Ref for an artist.
func ArtistRef(id ulid.ULID) Ref { return Ref{Type: EntityArtist, ID: id} }

// AlbumRef builds a Ref for an album.
func AlbumRef(id ulid.ULID) Ref { return Ref{Type: EntityAlbum, ID: id} }

// TrackRef builds a Ref for a track.
func TrackRef(id ulid.ULID) Ref { return Ref{Type: EntityTrack, ID: id} }

// ValidateEdge checks that two refs can be linked: both types must be
// known and distinct. Any pair of distinct entity types is a valid edge
// kind (artist-track, artist-album, album-track).
func ValidateEdge(a, b Ref) error {
	if !a.Type.Valid() {
		return apperr.Validation("type", "unknown entity type %q", a.Type)
	}
	if !b.Type.Valid() {
		return apperr.Validation("type", "unknown entity type %q", b.Type)
	}
	if a.Type == b.Type {
		return apperr.Validation("type", "cannot link two entities of type %q", a.Type)
	}
	return nil
}

// Artist is a performing or recording artist.
type Artist struct {
	ID        ulid.ULID
	Nickname  string
	FirstName string
	LastName  string
	BirthDate *time.Time
	Photo     string
	Bio       string
	CreatedAt time.Time
}

// Album is a released collection of tracks.
type Album struct {
	ID          ulid.ULID
	Title       string
	Description string
	Cover       string
	CreatedAt   time.Time
}

// Track is a single recording.
type Track struct {
	ID         ulid.ULID
	Title      string
	Cover      string
	AudioFile  string
	ReleasedAt *time.Time
	CreatedAt  time.Time
}

// ArtistDetail is an artist with the IDs of its related entities.
type ArtistDetail struct {
	Artist
	TrackIDs []ulid.ULID
	AlbumIDs []ulid.ULID
}

// AlbumDetail is an album with the IDs of its related entities.
type AlbumDetail struct {
	Album
	TrackIDs  []ulid.ULID
	ArtistIDs []ulid.ULID
}

// TrackDetail is a track with the IDs of its related entities.
type TrackDetail struct {
	Track
	ArtistIDs []ulid.ULID
	AlbumIDs  []ulid.ULID
}
