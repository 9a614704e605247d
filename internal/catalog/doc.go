// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package catalog holds the music catalog domain: artists, albums, and
// tracks connected by undirected many-to-many relations. The three join
// tables are the sole source of truth for the graph; entity rows never
// embed adjacency. Deleting an entity removes its incident edges and
// the entity row in one transaction.
package catalog
