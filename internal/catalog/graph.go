// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package catalog

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// GraphManager owns the relationship graph between catalog entities.
// All edge mutations and cascade deletes go through it; entity field
// updates never touch adjacency.
type GraphManager struct {
	artists   ArtistRepository
	albums    AlbumRepository
	tracks    TrackRepository
	relations RelationRepository
	tx        Transactor
}

// NewGraphManager creates a GraphManager.
func NewGraphManager(
	artists ArtistRepository,
	albums AlbumRepository,
	tracks TrackRepository,
	relations RelationRepository,
	tx Transactor,
) (*GraphManager, error) {
	if artists == nil {
		return nil, oops.Errorf("artist repository is required")
	}
	if albums == nil {
		return nil, oops.Errorf("album repository is required")
	}
	if tracks == nil {
		return nil, oops.Errorf("track repository is required")
	}
	if relations == nil {
		return nil, oops.Errorf("relation repository is required")
	}
	if tx == nil {
		return nil, oops.Errorf("transactor is required")
	}
	return &GraphManager{
		artists:   artists,
		albums:    albums,
		tracks:    tracks,
		relations: relations,
		tx:        tx,
	}, nil
}

// Link records an undirected edge between two entities. Both endpoints
// must exist; a missing endpoint yields a not-found error naming its
// type. Linking an already-linked pair is a no-op.
func (g *GraphManager) Link(ctx context.Context, a, b Ref) error {
	if err := ValidateEdge(a, b); err != nil {
		return err
	}
	if err := g.ensureExists(ctx, a); err != nil {
		return err
	}
	if err := g.ensureExists(ctx, b); err != nil {
		return err
	}
	return g.relations.Link(ctx, a, b)
}

// Unlink removes the edge between two entities. Both endpoints must
// exist; unlinking a pair that is not linked is a no-op.
func (g *GraphManager) Unlink(ctx context.Context, a, b Ref) error {
	if err := ValidateEdge(a, b); err != nil {
		return err
	}
	if err := g.ensureExists(ctx, a); err != nil {
		return err
	}
	if err := g.ensureExists(ctx, b); err != nil {
		return err
	}
	return g.relations.Unlink(ctx, a, b)
}

// RelatedIDs returns the IDs of entities of the given type linked to ref.
func (g *GraphManager) RelatedIDs(ctx context.Context, ref Ref, other EntityType) ([]ulid.ULID, error) {
	if err := ValidateEdge(ref, Ref{Type: other}); err != nil {
		return nil, err
	}
	return g.relations.RelatedIDs(ctx, ref, other)
}

// DeleteEntity removes an entity and every edge incident to it in one
// transaction. After it returns no join row references the entity.
func (g *GraphManager) DeleteEntity(ctx context.Context, ref Ref) error {
	if !ref.Type.Valid() {
		return oops.Code("GRAPH_BAD_TYPE").With("type", string(ref.Type)).Errorf("unknown entity type")
	}
	// Existence is checked up front so a missing entity fails before
	// the transaction opens.
	if err := g.ensureExists(ctx, ref); err != nil {
		return err
	}
	return g.tx.InTransaction(ctx, func(ctx context.Context) error {
		if err := g.relations.DeleteAllFor(ctx, ref); err != nil {
			return err
		}
		switch ref.Type {
		case EntityArtist:
			return g.artists.Delete(ctx, ref.ID)
		case EntityAlbum:
			return g.albums.Delete(ctx, ref.ID)
		case EntityTrack:
			return g.tracks.Delete(ctx, ref.ID)
		}
		return nil
	})
}

func (g *GraphManager) ensureExists(ctx context.Context, ref Ref) error {
	var err error
	switch ref.Type {
	case EntityArtist:
		_, err = g.artists.Get(ctx, ref.ID)
	case EntityAlbum:
		_, err = g.albums.Get(ctx, ref.ID)
	case EntityTrack:
		_, err = g.tracks.Get(ctx, ref.ID)
	default:
		return oops.Code("GRAPH_BAD_TYPE").With("type", string(ref.Type)).Errorf("unknown entity type")
	}
	return err
}
