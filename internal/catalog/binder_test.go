// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/internal/catalog"
	"github.com/tracklab/tracklab/pkg/errutil"
)

type fakeBlobStore struct {
	saved map[string]string // kind/filename -> uri
	fail  bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: make(map[string]string)}
}

func (f *fakeBlobStore) Save(kind, filename string, r io.Reader) (string, error) {
	if f.fail {
		return "", errors.New("disk full")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	uri := kind + "/" + filename
	f.saved[kind+"/"+filename] = uri
	return uri, nil
}

type binderFixture struct {
	*graphFixture
	store      *fakeBlobStore
	binder     *catalog.AssetBinder
	adminToken string
	userToken  string
}

func newBinderFixture(t *testing.T) *binderFixture {
	t.Helper()
	gf := newGraphFixture(t)
	guard, adminToken, userToken := newCatalogGuard(t)
	store := newFakeBlobStore()
	binder, err := catalog.NewAssetBinder(gf.artists, gf.albums, gf.tracks, store, guard)
	require.NoError(t, err)
	return &binderFixture{graphFixture: gf, store: store, binder: binder, adminToken: adminToken, userToken: userToken}
}

func TestAssetBinder_BindArtistPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and binds", func(t *testing.T) {
		f := newBinderFixture(t)
		artist := f.addArtist(t)

		err := f.binder.BindArtistPhoto(ctx, f.adminToken, artist.ID, "photo.jpg", strings.NewReader("bytes"))
		require.NoError(t, err)

		stored, err := f.artists.Get(ctx, artist.ID)
		require.NoError(t, err)
		assert.Equal(t, "artists/photo.jpg", stored.Photo)
	})

	t.Run("rebinding overwrites the URI without cleanup", func(t *testing.T) {
		f := newBinderFixture(t)
		artist := f.addArtist(t)

		require.NoError(t, f.binder.BindArtistPhoto(ctx, f.adminToken, artist.ID, "old.jpg", strings.NewReader("a")))
		require.NoError(t, f.binder.BindArtistPhoto(ctx, f.adminToken, artist.ID, "new.jpg", strings.NewReader("b")))

		stored, err := f.artists.Get(ctx, artist.ID)
		require.NoError(t, err)
		assert.Equal(t, "artists/new.jpg", stored.Photo)
		// The old object stays in the store.
		assert.Contains(t, f.store.saved, "artists/old.jpg")
	})

	t.Run("storage failure leaves entity unchanged", func(t *testing.T) {
		f := newBinderFixture(t)
		artist := f.addArtist(t)
		f.store.fail = true

		err := f.binder.BindArtistPhoto(ctx, f.adminToken, artist.ID, "photo.jpg", strings.NewReader("bytes"))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindAssetUpload)

		stored, err := f.artists.Get(ctx, artist.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Photo)
	})

	t.Run("user token is denied", func(t *testing.T) {
		f := newBinderFixture(t)
		artist := f.addArtist(t)

		err := f.binder.BindArtistPhoto(ctx, f.userToken, artist.ID, "photo.jpg", strings.NewReader("bytes"))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindAuthorization)
	})

	t.Run("unknown artist is not found", func(t *testing.T) {
		f := newBinderFixture(t)

		err := f.binder.BindArtistPhoto(ctx, f.adminToken, ulid.Make(), "photo.jpg", strings.NewReader("bytes"))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindNotFound)
	})
}

func TestAssetBinder_AlbumAndTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("album cover", func(t *testing.T) {
		f := newBinderFixture(t)
		album := f.addAlbum(t)

		err := f.binder.BindAlbumCover(ctx, f.adminToken, album.ID, "cover.png", strings.NewReader("bytes"))
		require.NoError(t, err)

		stored, err := f.albums.Get(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, "albums/cover.png", stored.Cover)
	})

	t.Run("track cover and audio bind independently", func(t *testing.T) {
		f := newBinderFixture(t)
		track := f.addTrack(t)

		require.NoError(t, f.binder.BindTrackCover(ctx, f.adminToken, track.ID, "cover.png", strings.NewReader("img")))
		require.NoError(t, f.binder.BindTrackAudio(ctx, f.adminToken, track.ID, "song.mp3", strings.NewReader("audio")))

		stored, err := f.tracks.Get(ctx, track.ID)
		require.NoError(t, err)
		assert.Equal(t, "track-covers/cover.png", stored.Cover)
		assert.Equal(t, "tracks/song.mp3", stored.AudioFile)
	})

	t.Run("audio storage failure binds nothing", func(t *testing.T) {
		f := newBinderFixture(t)
		track := f.addTrack(t)
		f.store.fail = true

		err := f.binder.BindTrackAudio(ctx, f.adminToken, track.ID, "song.mp3", strings.NewReader("audio"))
		require.Error(t, err)
		errutil.AssertKind(t, err, apperr.KindAssetUpload)

		stored, err := f.tracks.Get(ctx, track.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.AudioFile)
	})
}
