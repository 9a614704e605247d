// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog_test

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/internal/catalog"
	"github.com/tracklab/tracklab/pkg/errutil"
)

func TestGraphManager_Link(t *testing.T) {
	ctx := context.Background()

	t.Run("links artist and track", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		track := f.addTrack(t)

		err := f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, f.relations.count())
	})

	t.Run("link is idempotent", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		track := f.addTrack(t)
		a, b := catalog.ArtistRef(artist.ID), catalog.TrackRef(track.ID)

		require.NoError(t, f.graph.Link(ctx, a, b))
		require.NoError(t, f.graph.Link(ctx, a, b))
		assert.Equal(t, 1, f.relations.count())
	})

	t.Run("link is undirected", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		album := f.addAlbum(t)
		a, b := catalog.ArtistRef(artist.ID), catalog.AlbumRef(album.ID)

		require.NoError(t, f.graph.Link(ctx, a, b))
		require.NoError(t, f.graph.Link(ctx, b, a))
		assert.Equal(t, 1, f.relations.count())
	})

	t.Run("all three edge kinds are linkable", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		album := f.addAlbum(t)
		track := f.addTrack(t)

		require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track.ID)))
		require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.AlbumRef(album.ID)))
		require.NoError(t, f.graph.Link(ctx, catalog.AlbumRef(album.ID), catalog.TrackRef(track.ID)))
		assert.Equal(t, 3, f.relations.count())
	})

	t.Run("same-type pair is a validation error", func(t *testing.T) {
		f := newGraphFixture(t)
		a1 := f.addArtist(t)
		a2 := f.addArtist(t)

		err := f.graph.Link(ctx, catalog.ArtistRef(a1.ID), catalog.ArtistRef(a2.ID))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindValidation)
	})

	t.Run("missing endpoint names its type", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)

		err := f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(ulid.Make()))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindNotFound)
		assert.Contains(t, err.Error(), "track")
		assert.Equal(t, 0, f.relations.count())
	})
}

func TestGraphManager_Unlink(t *testing.T) {
	ctx := context.Background()

	t.Run("link then unlink round trip", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		track := f.addTrack(t)
		a, b := catalog.ArtistRef(artist.ID), catalog.TrackRef(track.ID)

		require.NoError(t, f.graph.Link(ctx, a, b))
		require.NoError(t, f.graph.Unlink(ctx, a, b))
		assert.Equal(t, 0, f.relations.count())
	})

	t.Run("unlinking an absent edge is a no-op", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		track := f.addTrack(t)

		err := f.graph.Unlink(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track.ID))
		assert.NoError(t, err)
	})

	t.Run("unlink requires both endpoints to exist", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)

		err := f.graph.Unlink(ctx, catalog.ArtistRef(artist.ID), catalog.AlbumRef(ulid.Make()))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindNotFound)
		assert.Contains(t, err.Error(), "album")
	})
}

func TestGraphManager_RelatedIDs(t *testing.T) {
	ctx := context.Background()

	f := newGraphFixture(t)
	artist := f.addArtist(t)
	track1 := f.addTrack(t)
	track2 := f.addTrack(t)
	album := f.addAlbum(t)

	require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track1.ID)))
	require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track2.ID)))
	require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.AlbumRef(album.ID)))

	trackIDs, err := f.graph.RelatedIDs(ctx, catalog.ArtistRef(artist.ID), catalog.EntityTrack)
	require.NoError(t, err)
	assert.ElementsMatch(t, []ulid.ULID{track1.ID, track2.ID}, trackIDs)

	albumIDs, err := f.graph.RelatedIDs(ctx, catalog.ArtistRef(artist.ID), catalog.EntityAlbum)
	require.NoError(t, err)
	assert.ElementsMatch(t, []ulid.ULID{album.ID}, albumIDs)

	// The edge reads the same from the other endpoint.
	artistIDs, err := f.graph.RelatedIDs(ctx, catalog.TrackRef(track1.ID), catalog.EntityArtist)
	require.NoError(t, err)
	assert.ElementsMatch(t, []ulid.ULID{artist.ID}, artistIDs)
}

func TestGraphManager_DeleteEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("removes entity and all incident edges", func(t *testing.T) {
		f := newGraphFixture(t)
		artist := f.addArtist(t)
		album := f.addAlbum(t)
		track1 := f.addTrack(t)
		track2 := f.addTrack(t)

		require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track1.ID)))
		require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.TrackRef(track2.ID)))
		require.NoError(t, f.graph.Link(ctx, catalog.ArtistRef(artist.ID), catalog.AlbumRef(album.ID)))
		require.NoError(t, f.graph.Link(ctx, catalog.AlbumRef(album.ID), catalog.TrackRef(track1.ID)))

		err := f.graph.DeleteEntity(ctx, catalog.ArtistRef(artist.ID))
		require.NoError(t, err)

		assert.True(t, f.tx.began)
		assert.True(t, f.tx.committed)
		assert.Equal(t, 0, f.relations.incident(catalog.ArtistRef(artist.ID)))
		_, err = f.artists.Get(ctx, artist.ID)
		errutil.AssertKind(t, err, apperr.KindNotFound)

		// Edges not touching the artist survive.
		assert.Equal(t, 1, f.relations.count())
		_, err = f.albums.Get(ctx, album.ID)
		assert.NoError(t, err)
	})

	t.Run("missing entity fails before the transaction opens", func(t *testing.T) {
		f := newGraphFixture(t)

		err := f.graph.DeleteEntity(ctx, catalog.TrackRef(ulid.Make()))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindNotFound)
		assert.False(t, f.tx.began)
	})

	t.Run("edge delete failure keeps the entity", func(t *testing.T) {
		f := newGraphFixture(t)
		track := f.addTrack(t)
		f.relations.failDeleteAllFor = true

		err := f.graph.DeleteEntity(ctx, catalog.TrackRef(track.ID))
		require.Error(t, err)
		assert.False(t, f.tx.committed)

		_, err = f.tracks.Get(ctx, track.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		f := newGraphFixture(t)

		err := f.graph.DeleteEntity(ctx, catalog.Ref{Type: "playlist", ID: ulid.Make()})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "GRAPH_BAD_TYPE")
	})
}
