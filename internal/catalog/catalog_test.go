// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/goleak"

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/internal/auth"
	"github.com/tracklab/tracklab/internal/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// In-memory fakes. The relation fake keys edges on a canonical (type,
// id) pair so Link(a,b) and Link(b,a) address the same edge.

type fakeArtists struct {
	m map[ulid.ULID]*catalog.Artist
}

func newFakeArtists() *fakeArtists {
	return &fakeArtists{m: make(map[ulid.ULID]*catalog.Artist)}
}

func (f *fakeArtists) Create(_ context.Context, a *catalog.Artist) error {
	cp := *a
	f.m[a.ID] = &cp
	return nil
}

func (f *fakeArtists) Get(_ context.Context, id ulid.ULID) (*catalog.Artist, error) {
	a, ok := f.m[id]
	if !ok {
		return nil, apperr.NotFound("artist")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeArtists) List(_ context.Context) ([]*catalog.Artist, error) {
	out := make([]*catalog.Artist, 0, len(f.m))
	for _, a := range f.m {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeArtists) Update(_ context.Context, a *catalog.Artist) error {
	if _, ok := f.m[a.ID]; !ok {
		return apperr.NotFound("artist")
	}
	cp := *a
	f.m[a.ID] = &cp
	return nil
}

func (f *fakeArtists) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := f.m[id]; !ok {
		return apperr.NotFound("artist")
	}
	delete(f.m, id)
	return nil
}

func (f *fakeArtists) SetPhoto(_ context.Context, id ulid.ULID, uri string) error {
	a, ok := f.m[id]
	if !ok {
		return apperr.NotFound("artist")
	}
	a.Photo = uri
	return nil
}

type fakeAlbums struct {
	m map[ulid.ULID]*catalog.Album
}

func newFakeAlbums() *fakeAlbums {
	return &fakeAlbums{m: make(map[ulid.ULID]*catalog.Album)}
}

func (f *fakeAlbums) Create(_ context.Context, a *catalog.Album) error {
	cp := *a
	f.m[a.ID] = &cp
	return nil
}

func (f *fakeAlbums) Get(_ context.Context, id ulid.ULID) (*catalog.Album, error) {
	a, ok := f.m[id]
	if !ok {
		return nil, apperr.NotFound("album")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAlbums) List(_ context.Context) ([]*catalog.Album, error) {
	out := make([]*catalog.Album, 0, len(f.m))
	for _, a := range f.m {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAlbums) Update(_ context.Context, a *catalog.Album) error {
	if _, ok := f.m[a.ID]; !ok {
		return apperr.NotFound("album")
	}
	cp := *a
	f.m[a.ID] = &cp
	return nil
}

func (f *fakeAlbums) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := f.m[id]; !ok {
		return apperr.NotFound("album")
	}
	delete(f.m, id)
	return nil
}

func (f *fakeAlbums) SetCover(_ context.Context, id ulid.ULID, uri string) error {
	a, ok := f.m[id]
	if !ok {
		return apperr.NotFound("album")
	}
	a.Cover = uri
	return nil
}

type fakeTracks struct {
	m map[ulid.ULID]*catalog.Track
}

func newFakeTracks() *fakeTracks {
	return &fakeTracks{m: make(map[ulid.ULID]*catalog.Track)}
}

func (f *fakeTracks) Create(_ context.Context, tr *catalog.Track) error {
	cp := *tr
	f.m[tr.ID] = &cp
	return nil
}

func (f *fakeTracks) Get(_ context.Context, id ulid.ULID) (*catalog.Track, error) {
	tr, ok := f.m[id]
	if !ok {
		return nil, apperr.NotFound("track")
	}
	cp := *tr
	return &cp, nil
}

func (f *fakeTracks) List(_ context.Context) ([]*catalog.Track, error) {
	out := make([]*catalog.Track, 0, len(f.m))
	for _, tr := range f.m {
		cp := *tr
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTracks) Update(_ context.Context, tr *catalog.Track) error {
	if _, ok := f.m[tr.ID]; !ok {
		return apperr.NotFound("track")
	}
	cp := *tr
	f.m[tr.ID] = &cp
	return nil
}

func (f *fakeTracks) Delete(_ context.Context, id ulid.ULID) error {
	if _, ok := f.m[id]; !ok {
		return apperr.NotFound("track")
	}
	delete(f.m, id)
	return nil
}

func (f *fakeTracks) SetCover(_ context.Context, id ulid.ULID, uri string) error {
	tr, ok := f.m[id]
	if !ok {
		return apperr.NotFound("track")
	}
	tr.Cover = uri
	return nil
}

func (f *fakeTracks) SetAudio(_ context.Context, id ulid.ULID, uri string) error {
	tr, ok := f.m[id]
	if !ok {
		return apperr.NotFound("track")
	}
	tr.AudioFile = uri
	return nil
}

type edge struct {
	a, b catalog.Ref
}

// canonical orders an edge's endpoints by type name so (a,b) and (b,a)
// address the same edge.
func canonical(a, b catalog.Ref) edge {
	if b.Type < a.Type {
		a, b = b, a
	}
	return edge{a: a, b: b}
}

type fakeRelations struct {
	edges map[edge]struct{}

	failDeleteAllFor bool
}

func newFakeRelations() *fakeRelations {
	return &fakeRelations{edges: make(map[edge]struct{})}
}

func (f *fakeRelations) Link(_ context.Context, a, b catalog.Ref) error {
	f.edges[canonical(a, b)] = struct{}{}
	return nil
}

func (f *fakeRelations) Unlink(_ context.Context, a, b catalog.Ref) error {
	delete(f.edges, canonical(a, b))
	return nil
}

func (f *fakeRelations) RelatedIDs(_ context.Context, ref catalog.Ref, other catalog.EntityType) ([]ulid.ULID, error) {
	var ids []ulid.ULID
	for e := range f.edges {
		switch {
		case e.a == ref && e.b.Type == other:
			ids = append(ids, e.b.ID)
		case e.b == ref && e.a.Type == other:
			ids = append(ids, e.a.ID)
		}
	}
	return ids, nil
}

func (f *fakeRelations) DeleteAllFor(_ context.Context, ref catalog.Ref) error {
	if f.failDeleteAllFor {
		return fmt.Errorf("relation delete failed")
	}
	for e := range f.edges {
		if e.a == ref || e.b == ref {
			delete(f.edges, e)
		}
	}
	return nil
}

func (f *fakeRelations) count() int { return len(f.edges) }

func (f *fakeRelations) incident(ref catalog.Ref) int {
	n := 0
	for e := range f.edges {
		if e.a == ref || e.b == ref {
			n++
		}
	}
	return n
}

// fakeTransactor runs the callback directly and records whether a
// transaction was opened. If the callback fails the "transaction" is
// treated as rolled back and committed stays false.
type fakeTransactor struct {
	began     bool
	committed bool
}

func (f *fakeTransactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.began = true
	if err := fn(ctx); err != nil {
		return err
	}
	f.committed = true
	return nil
}

// testGraph builds a GraphManager wired to fresh fakes.
type graphFixture struct {
	artists   *fakeArtists
	albums    *fakeAlbums
	tracks    *fakeTracks
	relations *fakeRelations
	tx        *fakeTransactor
	graph     *catalog.GraphManager
}

func newGraphFixture(t *testing.T) *graphFixture {
	t.Helper()
	f := &graphFixture{
		artists:   newFakeArtists(),
		albums:    newFakeAlbums(),
		tracks:    newFakeTracks(),
		relations: newFakeRelations(),
		tx:        &fakeTransactor{},
	}
	graph, err := catalog.NewGraphManager(f.artists, f.albums, f.tracks, f.relations, f.tx)
	if err != nil {
		t.Fatalf("NewGraphManager: %v", err)
	}
	f.graph = graph
	return f
}

func (f *graphFixture) addArtist(t *testing.T) *catalog.Artist {
	t.Helper()
	a := &catalog.Artist{ID: ulid.Make(), Nickname: "artist-" + ulid.Make().String()[:6], CreatedAt: time.Now().UTC()}
	if err := f.artists.Create(context.Background(), a); err != nil {
		t.Fatalf("create artist: %v", err)
	}
	return a
}

func (f *graphFixture) addAlbum(t *testing.T) *catalog.Album {
	t.Helper()
	a := &catalog.Album{ID: ulid.Make(), Title: "album-" + ulid.Make().String()[:6], CreatedAt: time.Now().UTC()}
	if err := f.albums.Create(context.Background(), a); err != nil {
		t.Fatalf("create album: %v", err)
	}
	return a
}

func (f *graphFixture) addTrack(t *testing.T) *catalog.Track {
	t.Helper()
	tr := &catalog.Track{ID: ulid.Make(), Title: "track-" + ulid.Make().String()[:6], CreatedAt: time.Now().UTC()}
	if err := f.tracks.Create(context.Background(), tr); err != nil {
		t.Fatalf("create track: %v", err)
	}
	return tr
}

// newCatalogGuard builds a guard plus admin and user tokens for
// service-level tests.
func newCatalogGuard(t *testing.T) (*auth.Guard, string, string) {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("catalog-test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	guard, err := auth.NewGuard(tokens)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	adminToken, err := tokens.Issue("admin@example.com", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}
	userToken, err := tokens.Issue("user@example.com", auth.RoleUser)
	if err != nil {
		t.Fatalf("issue user token: %v", err)
	}
	return guard, adminToken, userToken
}
