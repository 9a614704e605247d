// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/auth"
)

// Service exposes the role-gated catalog operations. Reads are open to
// anonymous callers; every mutation requires an ADMIN token.
type Service struct {
	artists ArtistRepository
	albums  AlbumRepository
	tracks  TrackRepository
	graph   *GraphManager
	guard   *auth.Guard
}

// NewService creates a catalog Service.
func NewService(
	artists ArtistRepository,
	albums AlbumRepository,
	tracks TrackRepository,
	graph *GraphManager,
	guard *auth.Guard,
) (*Service, error) {
	if artists == nil {
		return nil, oops.Errorf("artist repository is required")
	}
	if albums == nil {
		return nil, oops.Errorf("album repository is required")
	}
	if tracks == nil {
		return nil, oops.Errorf("track repository is required")
	}
	if graph == nil {
		return nil, oops.Errorf("graph manager is required")
	}
	if guard == nil {
		return nil, oops.Errorf("guard is required")
	}
	return &Service{artists: artists, albums: albums, tracks: tracks, graph: graph, guard: guard}, nil
}

// CreateArtist validates and stores a new artist.
func (s *Service) CreateArtist(ctx context.Context, bearer string, artist *Artist) (*Artist, error) {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := artist.Validate(); err != nil {
		return nil, err
	}
	artist.ID = ulid.Make()
	artist.CreatedAt = time.Now().UTC()
	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// GetArtist returns an artist with the IDs of its tracks and albums.
func (s *Service) GetArtist(ctx context.Context, id ulid.ULID) (*ArtistDetail, error) {
	artist, err := s.artists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := ArtistRef(id)
	trackIDs, err := s.graph.RelatedIDs(ctx, ref, EntityTrack)
	if err != nil {
		return nil, err
	}
	albumIDs, err := s.graph.RelatedIDs(ctx, ref, EntityAlbum)
	if err != nil {
		return nil, err
	}
	return &ArtistDetail{Artist: *artist, TrackIDs: trackIDs, AlbumIDs: albumIDs}, nil
}

// ListArtists returns all artists.
func (s *Service) ListArtists(ctx context.Context) ([]*Artist, error) {
	return s.artists.List(ctx)
}

// UpdateArtist replaces the mutable fields of an artist. Photo, creation
// time, and relations survive the update.
func (s *Service) UpdateArtist(ctx context.Context, bearer string, upd *Artist) (*Artist, error) {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	artist, err := s.artists.Get(ctx, upd.ID)
	if err != nil {
		return nil, err
	}
	artist.Nickname = upd.Nickname
	artist.FirstName = upd.FirstName
	artist.LastName = upd.LastName
	artist.BirthDate = upd.BirthDate
	artist.Bio = upd.Bio
	if err := s.artists.Update(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// DeleteArtist removes an artist and all its relations.
func (s *Service) DeleteArtist(ctx context.Context, bearer string, id ulid.ULID) error {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	return s.graph.DeleteEntity(ctx, ArtistRef(id))
}

// CreateAlbum validates and stores a new album.
func (s *Service) CreateAlbum(ctx context.Context, bearer string, album *Album) (*Album, error) {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := album.Validate(); err != nil {
		return nil, err
	}
	album.ID = ulid.Make()
	album.CreatedAt = time.Now().UTC()
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// GetAlbum returns an album with the IDs of its tracks and artists.
func (s *Service) GetAlbum(ctx context.Context, id ulid.ULID) (*AlbumDetail, error) {
	album, err := s.albums.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := AlbumRef(id)
	trackIDs, err := s.graph.RelatedIDs(ctx, ref, EntityTrack)
	if err != nil {
		return nil, err
	}
	artistIDs, err := s.graph.RelatedIDs(ctx, ref, EntityArtist)
	if err != nil {
		return nil, err
	}
	return &AlbumDetail{Album: *album, TrackIDs: trackIDs, ArtistIDs: artistIDs}, nil
}

// ListAlbums returns all albums.
func (s *Service) ListAlbums(ctx context.Context) ([]*Album, error) {
	return s.albums.List(ctx)
}

// UpdateAlbum replaces the mutable fields of an album.
func (s *Service) UpdateAlbum(ctx context.Context, bearer string, upd *Album) (*Album, error) {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	album, err := s.albums.Get(ctx, upd.ID)
	if err != nil {
		return nil, err
	}
	album.Title = upd.Title
	album.Description = upd.Description
	if err := s.albums.Update(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// DeleteAlbum removes an album and all its relations.
func (s *Service) DeleteAlbum(ctx context.Context, bearer string, id ulid.ULID) error {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	return s.graph.DeleteEntity(ctx, AlbumRef(id))
}

// CreateTrack validates and stores a new track.
func (s *Service) CreateTrack(ctx context.Context, bearer string, track *Track) (*Track, error) {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	track.ID = ulid.Make()
	track.CreatedAt = time.Now().UTC()
	if err := s.tracks.Create(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// GetTrack returns a track with the IDs of its artists and albums.
func (s *Service) GetTrack(ctx context.Context, id ulid.ULID) (*TrackDetail, error) {
	track, err := s.tracks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := TrackRef(id)
	artistIDs, err := s.graph.RelatedIDs(ctx, ref, EntityArtist)
	if err != nil {
		return nil, err
	}
	albumIDs, err := s.graph.RelatedIDs(ctx, ref, EntityAlbum)
	if err != nil {
		return nil, err
	}
	return &TrackDetail{Track: *track, ArtistIDs: artistIDs, AlbumIDs: albumIDs}, nil
}

// ListTracks returns all tracks.
func (s *Service) ListTracks(ctx context.Context) ([]*Track, error) {
	return s.tracks.List(ctx)
}

// UpdateTrack replaces the mutable fields of a track. Cover, audio,
// creation time, and artist relations survive the update.
func (s *Service) UpdateTrack(ctx context.Context, bearer string, upd *Track) (*Track, error) {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	track, err := s.tracks.Get(ctx, upd.ID)
	if err != nil {
		return nil, err
	}
	track.Title = upd.Title
	track.ReleasedAt = upd.ReleasedAt
	if err := s.tracks.Update(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// DeleteTrack removes a track and all its relations.
func (s *Service) DeleteTrack(ctx context.Context, bearer string, id ulid.ULID) error {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	return s.graph.DeleteEntity(ctx, TrackRef(id))
}

// Link records an edge between two catalog entities.
func (s *Service) Link(ctx context.Context, bearer string, a, b Ref) error {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	return s.graph.Link(ctx, a, b)
}

// Unlink removes an edge between two catalog entities.
func (s *Service) Unlink(ctx context.Context, bearer string, a, b Ref) error {
	if _, err := s.guard.Require(ctx, bearer, auth.RoleAdmin); err != nil {
		return err
	}
	return s.graph.Unlink(ctx, a, b)
}
