// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog

import (
	"context"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/internal/auth"
)

// BlobStore persists uploaded asset bytes and returns an opaque URI for
// later retrieval. Implementations group objects by kind.
type BlobStore interface {
	Save(kind, filename string, r io.Reader) (string, error)
}

// Asset kind names. They select the storage subdirectory.
const (
	KindArtistPhoto = "artists"
	KindAlbumCover  = "albums"
	KindTrackCover  = "track-covers"
	KindTrackAudio  = "tracks"
)

// AssetBinder stores uploaded files and binds the resulting URI to a
// catalog entity field. Rebinding overwrites the URI without deleting
// the previously stored object. A storage failure leaves the entity
// unchanged.
type AssetBinder struct {
	artists ArtistRepository
	albums  AlbumRepository
	tracks  TrackRepository
	store   BlobStore
	guard   *auth.Guard
}

// NewAssetBinder creates an AssetBinder.
func NewAssetBinder(
	artists ArtistRepository,
	albums AlbumRepository,
	tracks TrackRepository,
	store BlobStore,
	guard *auth.Guard,
) (*AssetBinder, error) {
	if artists == nil {
		return nil, oops.Errorf("artist repository is required")
	}
	if albums == nil {
		return nil, oops.Errorf("album repository is required")
	}
	if tracks == nil {
		return nil, oops.Errorf("track repository is required")
	}
	if store == nil {
		return nil, oops.Errorf("blob store is required")
	}
	if guard == nil {
		return nil, oops.Errorf("guard is required")
	}
	return &AssetBinder{artists: artists, albums: albums, tracks: tracks, store: store, guard: guard}, nil
}

// BindArtistPhoto stores a photo and binds it to the artist.
func (b *AssetBinder) BindArtistPhoto(ctx context.Context, bearer string, id ulid.ULID, filename string, r io.Reader) error {
	if _, err := b.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	if _, err := b.artists.Get(ctx, id); err != nil {
		return err
	}
	uri, err := b.save(KindArtistPhoto, filename, r)
	if err != nil {
		return err
	}
	return b.artists.SetPhoto(ctx, id, uri)
}

// BindAlbumCover stores a cover image and binds it to the album.
func (b *AssetBinder) BindAlbumCover(ctx context.Context, bearer string, id ulid.ULID, filename string, r io.Reader) error {
	if _, err := b.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	if _, err := b.albums.Get(ctx, id); err != nil {
		return err
	}
	uri, err := b.save(KindAlbumCover, filename, r)
	if err != nil {
		return err
	}
	return b.albums.SetCover(ctx, id, uri)
}

// BindTrackCover stores a cover image and binds it to the track.
func (b *AssetBinder) BindTrackCover(ctx context.Context, bearer string, id ulid.ULID, filename string, r io.Reader) error {
	if _, err := b.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	if _, err := b.tracks.Get(ctx, id); err != nil {
		return err
	}
	uri, err := b.save(KindTrackCover, filename, r)
	if err != nil {
		return err
	}
	return b.tracks.SetCover(ctx, id, uri)
}

// BindTrackAudio stores an audio file and binds it to the track.
func (b *AssetBinder) BindTrackAudio(ctx context.Context, bearer string, id ulid.ULID, filename string, r io.Reader) error {
	if _, err := b.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	if _, err := b.tracks.Get(ctx, id); err != nil {
		return err
	}
	uri, err := b.save(KindTrackAudio, filename, r)
	if err != nil {
		return err
	}
	return b.tracks.SetAudio(ctx, id, uri)
}

func (b *AssetBinder) save(kind, filename string, r io.Reader) (string, error) {
	uri, err := b.store.Save(kind, filename, r)
	if err != nil {
		return "", apperr.AssetUpload("could not store %s file", kind).WithCause(err)
	}
	return uri, nil
}
