// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tracklab/tracklab/internal/catalog"
)

func ulidStrings(ids []ulid.ULID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

type artistRequest struct {
	Nickname  string     `json:"nickname"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	Bio       string     `json:"bio"`
}

type artistResponse struct {
	ID        string     `json:"id"`
	Nickname  string     `json:"nickname"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	Photo     string     `json:"photo"`
	Bio       string     `json:"bio"`
	CreatedAt time.Time  `json:"created_at"`
}

type artistDetailResponse struct {
	artistResponse
	TrackIDs []string `json:"track_ids"`
	AlbumIDs []string `json:"album_ids"`
}

func toArtistResponse(a *catalog.Artist) artistResponse {
	return artistResponse{
		ID:        a.ID.String(),
		Nickname:  a.Nickname,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		BirthDate: a.BirthDate,
		Photo:     a.Photo,
		Bio:       a.Bio,
		CreatedAt: a.CreatedAt,
	}
}

type albumRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type albumResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Cover       string    `json:"cover"`
	CreatedAt   time.Time `json:"created_at"`
}

type albumDetailResponse struct {
	albumResponse
	TrackIDs  []string `json:"track_ids"`
	ArtistIDs []string `json:"artist_ids"`
}

func toAlbumResponse(a *catalog.Album) albumResponse {
	return albumResponse{
		ID:          a.ID.String(),
		Title:       a.Title,
		Description: a.Description,
		Cover:       a.Cover,
		CreatedAt:   a.CreatedAt,
	}
}

type trackRequest struct {
	Title      string     `json:"title"`
	ReleasedAt *time.Time `json:"released_at"`
}

type trackResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Cover      string     `json:"cover"`
	AudioFile  string     `json:"audio_file"`
	ReleasedAt *time.Time `json:"released_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

type trackDetailResponse struct {
	trackResponse
	ArtistIDs []string `json:"artist_ids"`
	AlbumIDs  []string `json:"album_ids"`
}

func toTrackResponse(t *catalog.Track) trackResponse {
	return trackResponse{
		ID:         t.ID.String(),
		Title:      t.Title,
		Cover:      t.Cover,
		AudioFile:  t.AudioFile,
		ReleasedAt: t.ReleasedAt,
		CreatedAt:  t.CreatedAt,
	}
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.catalog.ListArtists(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]artistResponse, 0, len(artists))
	for _, a := range artists {
		out = append(out, toArtistResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	artist, err := s.catalog.CreateArtist(r.Context(), bearer(r), &catalog.Artist{
		Nickname:  req.Nickname,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Bio:       req.Bio,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toArtistResponse(artist))
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.catalog.GetArtist(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artistDetailResponse{
		artistResponse: toArtistResponse(&detail.Artist),
		TrackIDs:       ulidStrings(detail.TrackIDs),
		AlbumIDs:       ulidStrings(detail.AlbumIDs),
	})
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req artistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	artist, err := s.catalog.UpdateArtist(r.Context(), bearer(r), &catalog.Artist{
		ID:        id,
		Nickname:  req.Nickname,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Bio:       req.Bio,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toArtistResponse(artist))
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.catalog.DeleteArtist(r.Context(), bearer(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.ListAlbums(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]albumResponse, 0, len(albums))
	for _, a := range albums {
		out = append(out, toAlbumResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	album, err := s.catalog.CreateAlbum(r.Context(), bearer(r), &catalog.Album{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAlbumResponse(album))
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.catalog.GetAlbum(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, albumDetailResponse{
		albumResponse: toAlbumResponse(&detail.Album),
		TrackIDs:      ulidStrings(detail.TrackIDs),
		ArtistIDs:     ulidStrings(detail.ArtistIDs),
	})
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	album, err := s.catalog.UpdateAlbum(r.Context(), bearer(r), &catalog.Album{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumResponse(album))
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.catalog.DeleteAlbum(r.Context(), bearer(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.ListTracks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]trackResponse, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, toTrackResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	track, err := s.catalog.CreateTrack(r.Context(), bearer(r), &catalog.Track{
		Title:      req.Title,
		ReleasedAt: req.ReleasedAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTrackResponse(track))
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.catalog.GetTrack(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trackDetailResponse{
		trackResponse: toTrackResponse(&detail.Track),
		ArtistIDs:     ulidStrings(detail.ArtistIDs),
		AlbumIDs:      ulidStrings(detail.AlbumIDs),
	})
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req trackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	track, err := s.catalog.UpdateTrack(r.Context(), bearer(r), &catalog.Track{
		ID:         id,
		Title:      req.Title,
		ReleasedAt: req.ReleasedAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrackResponse(track))
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.catalog.DeleteTrack(r.Context(), bearer(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// linkHandler builds a handler recording an edge between the two
// entities named by the path parameters.
func (s *Server) linkHandler(typeA catalog.EntityType, paramA string, typeB catalog.EntityType, paramB string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, b, err := edgeRefs(r, typeA, paramA, typeB, paramB)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.catalog.Link(r.Context(), bearer(r), a, b); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// unlinkHandler builds a handler removing the edge between the two
// entities named by the path parameters.
func (s *Server) unlinkHandler(typeA catalog.EntityType, paramA string, typeB catalog.EntityType, paramB string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, b, err := edgeRefs(r, typeA, paramA, typeB, paramB)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.catalog.Unlink(r.Context(), bearer(r), a, b); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func edgeRefs(r *http.Request, typeA catalog.EntityType, paramA string, typeB catalog.EntityType, paramB string) (catalog.Ref, catalog.Ref, error) {
	idA, err := pathID(r, paramA)
	if err != nil {
		return catalog.Ref{}, catalog.Ref{}, err
	}
	idB, err := pathID(r, paramB)
	if err != nil {
		return catalog.Ref{}, catalog.Ref{}, err
	}
	return catalog.Ref{Type: typeA, ID: idA}, catalog.Ref{Type: typeB, ID: idB}, nil
}

func (s *Server) handleUploadArtistPhoto(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, s.binder.BindArtistPhoto)
}

func (s *Server) handleUploadAlbumCover(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, s.binder.BindAlbumCover)
}

func (s *Server) handleUploadTrackCover(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, s.binder.BindTrackCover)
}

func (s *Server) handleUploadTrackAudio(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, s.binder.BindTrackAudio)
}

type bindFunc func(ctx context.Context, bearer string, id ulid.ULID, filename string, r io.Reader) error

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, bind bindFunc) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	file, filename, err := formFile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	if err := bind(r.Context(), bearer(r), id, filename, file); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
