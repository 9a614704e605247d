// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// ArtistRepository persists artists.
type ArtistRepository interface {
	Create(ctx context.Context, artist *Artist) error
	Get(ctx context.Context, id ulid.ULID) (*Artist, error)
	List(ctx context.Context) ([]*Artist, error)
	Update(ctx context.Context, artist *Artist) error
	Delete(ctx context.Context, id ulid.ULID) error
	SetPhoto(ctx context.Context, id ulid.ULID, uri string) error
}

// AlbumRepository persists albums.
type AlbumRepository interface {
	Create(ctx context.Context, album *Album) error
	Get(ctx context.Context, id ulid.ULID) (*Album, error)
	List(ctx context.Context) ([]*Album, error)
	Update(ctx context.Context, album *Album) error
	Delete(ctx context.Context, id ulid.ULID) error
	SetCover(ctx context.Context, id ulid.ULID, uri string) error
}

// TrackRepository persists tracks.
type TrackRepository interface {
	Create(ctx context.Context, track *Track) error
	Get(ctx context.Context, id ulid.ULID) (*Track, error)
	List(ctx context.Context) ([]*Track, error)
	Update(ctx context.Context, track *Track) error
	Delete(ctx context.Context, id ulid.ULID) error
	SetCover(ctx context.Context, id ulid.ULID, uri string) error
	SetAudio(ctx context.Context, id ulid.ULID, uri string) error
}

// RelationRepository persists the undirected edges between catalog
// entities. Implementations must make Link idempotent (relinking an
// existing pair is a no-op) and Unlink tolerant of absent edges.
type RelationRepository interface {
	// Link records an edge between two entities of distinct types.
	Link(ctx context.Context, a, b Ref) error

	// Unlink removes the edge between two entities if present.
	Unlink(ctx context.Context, a, b Ref) error

	// RelatedIDs returns the IDs of entities of the given type linked
	// to ref.
	RelatedIDs(ctx context.Context, ref Ref, other EntityType) ([]ulid.ULID, error)

	// DeleteAllFor removes every edge incident to ref across all edge
	// kinds. Used by cascade delete; must run inside the caller's
	// transaction when one is active.
	DeleteAllFor(ctx context.Context, ref Ref) error
}

// Transactor runs a function inside a storage transaction.
// Repository operations made with the callback's context join it.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
