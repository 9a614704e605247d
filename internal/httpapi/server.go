// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package httpapi serves the REST surface of the catalog: registration
// and login, account management, catalog CRUD, relationship edges, and
// file uploads.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/tracklab/tracklab/internal/auth"
	"github.com/tracklab/tracklab/internal/catalog"
)

// Pinger reports whether the backing database is reachable. Satisfied by
// *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the REST API.
type Server struct {
	addr       string
	users      *auth.Service
	catalog    *catalog.Service
	binder     *catalog.AssetBinder
	db         Pinger
	registry   *prometheus.Registry
	metrics    *Metrics
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a Server. db may be nil, in which case readiness
// reports ready unconditionally.
func NewServer(addr string, users *auth.Service, catalogSvc *catalog.Service, binder *catalog.AssetBinder, db Pinger) (*Server, error) {
	if users == nil {
		return nil, oops.Errorf("user service is required")
	}
	if catalogSvc == nil {
		return nil, oops.Errorf("catalog service is required")
	}
	if binder == nil {
		return nil, oops.Errorf("asset binder is required")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		addr:     addr,
		users:    users,
		catalog:  catalogSvc,
		binder:   binder,
		db:       db,
		registry: registry,
		metrics:  NewMetrics(registry),
	}, nil
}

// Handler builds the full route table. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/registration", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /api/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", s.handleDeleteUser)
	mux.HandleFunc("POST /api/users/{id}/change-password", s.handleChangePassword)
	mux.HandleFunc("POST /api/users/{id}/set-role", s.handleSetRole)
	mux.HandleFunc("POST /api/users/{id}/upload-photo", s.handleUploadUserPhoto)

	mux.HandleFunc("GET /api/artists", s.handleListArtists)
	mux.HandleFunc("POST /api/artists", s.handleCreateArtist)
	mux.HandleFunc("GET /api/artists/{id}", s.handleGetArtist)
	mux.HandleFunc("PATCH /api/artists/{id}", s.handleUpdateArtist)
	mux.HandleFunc("DELETE /api/artists/{id}", s.handleDeleteArtist)
	mux.HandleFunc("POST /api/artists/{id}/upload-photo", s.handleUploadArtistPhoto)
	mux.HandleFunc("POST /api/artists/{artist_id}/tracks/{track_id}", s.linkHandler(catalog.EntityArtist, "artist_id", catalog.EntityTrack, "track_id"))
	mux.HandleFunc("DELETE /api/artists/{artist_id}/tracks/{track_id}", s.unlinkHandler(catalog.EntityArtist, "artist_id", catalog.EntityTrack, "track_id"))
	mux.HandleFunc("POST /api/artists/{artist_id}/albums/{album_id}", s.linkHandler(catalog.EntityArtist, "artist_id", catalog.EntityAlbum, "album_id"))
	mux.HandleFunc("DELETE /api/artists/{artist_id}/albums/{album_id}", s.unlinkHandler(catalog.EntityArtist, "artist_id", catalog.EntityAlbum, "album_id"))

	mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	mux.HandleFunc("POST /api/albums", s.handleCreateAlbum)
	mux.HandleFunc("GET /api/albums/{id}", s.handleGetAlbum)
	mux.HandleFunc("PATCH /api/albums/{id}", s.handleUpdateAlbum)
	mux.HandleFunc("DELETE /api/albums/{id}", s.handleDeleteAlbum)
	mux.HandleFunc("POST /api/albums/{id}/upload-image", s.handleUploadAlbumCover)
	mux.HandleFunc("POST /api/albums/{album_id}/tracks/{track_id}", s.linkHandler(catalog.EntityAlbum, "album_id", catalog.EntityTrack, "track_id"))
	mux.HandleFunc("DELETE /api/albums/{album_id}/tracks/{track_id}", s.unlinkHandler(catalog.EntityAlbum, "album_id", catalog.EntityTrack, "track_id"))
	mux.HandleFunc("POST /api/albums/{album_id}/artists/{artist_id}", s.linkHandler(catalog.EntityAlbum, "album_id", catalog.EntityArtist, "artist_id"))
	mux.HandleFunc("DELETE /api/albums/{album_id}/artists/{artist_id}", s.unlinkHandler(catalog.EntityAlbum, "album_id", catalog.EntityArtist, "artist_id"))

	mux.HandleFunc("GET /api/tracks", s.handleListTracks)
	mux.HandleFunc("POST /api/tracks", s.handleCreateTrack)
	mux.HandleFunc("GET /api/tracks/{id}", s.handleGetTrack)
	mux.HandleFunc("PATCH /api/tracks/{id}", s.handleUpdateTrack)
	mux.HandleFunc("DELETE /api/tracks/{id}", s.handleDeleteTrack)
	mux.HandleFunc("POST /api/tracks/{id}/upload-image", s.handleUploadTrackCover)
	mux.HandleFunc("POST /api/tracks/{id}/upload-audio", s.handleUploadTrackAudio)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /healthz", s.handleLiveness)
	mux.HandleFunc("GET /readyz", s.handleReadiness)

	return instrument(s.metrics, mux)
}

// Start begins serving. It returns an error channel that receives any
// serve failure; the channel closes on graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("http server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("http server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("http server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_http_server").Wrap(err)
		}
	}

	slog.Info("http server stopped")
	return nil
}

// Addr returns the listen address, empty when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("ok\n"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.db == nil || s.db.Ping(r.Context()) == nil {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // health check write error is acceptable, client may disconnect
		w.Write([]byte("ok\n"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("not ready\n"))
}
