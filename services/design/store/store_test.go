// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/designstudio/designstudio/services/design/canvas"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	s := NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCanvas(layerID string) canvas.CanvasData {
	return canvas.CanvasData{
		Layers: []canvas.Layer{{
			ID:      layerID,
			Type:    canvas.TypeRectangle,
			Name:    "Rect",
			Width:   100,
			Height:  50,
			Visible: true,
			Opacity: 1,
			Properties: canvas.Properties{
				Shape: &canvas.ShapeProperties{Fill: "#FF0000"},
			},
		}},
		Viewport: canvas.Viewport{Zoom: 1},
	}
}

func TestProjectCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Website Redesign", "Q3 marketing site")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website Redesign", got.Name)
	assert.Equal(t, "Q3 marketing site", got.Description)

	name := "Website v2"
	updated, err := s.UpdateProject(ctx, p.ID, ProjectUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Website v2", updated.Name)
	assert.Equal(t, "Q3 marketing site", updated.Description, "description untouched")
	assert.True(t, !updated.UpdatedAt.Before(p.UpdatedAt))

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	t.Run("missing ids", func(t *testing.T) {
		_, err := s.GetProject(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.UpdateProject(ctx, 999, ProjectUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteProject(ctx, 999), ErrNotFound)
	})
}

func TestListAndSearchProjects(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.CreateProject(ctx, "Mobile App", "iOS redesign")
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, "Landing Page", "marketing")
	require.NoError(t, err)
	third, err := s.CreateProject(ctx, "Brand Kit", "logo and colors")
	require.NoError(t, err)

	all, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "most recently updated first")

	byName, err := s.SearchProjects(ctx, "LANDING", 0)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Landing Page", byName[0].Name)

	byDescription, err := s.SearchProjects(ctx, "redesign", 0)
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Mobile App", byDescription[0].Name)

	limited, err := s.SearchProjects(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDesignFileCRUD(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Project", "")
	require.NoError(t, err)

	f, err := s.CreateDesignFile(ctx, p.ID, "Homepage", nil)
	require.NoError(t, err)
	assert.Equal(t, p.ID, f.ProjectID)
	assert.Empty(t, f.CanvasData.Layers)
	assert.Equal(t, 1.0, f.CanvasData.Viewport.Zoom, "empty canvas defaults to zoom 1")

	data := testCanvas("layer_1")
	updated, err := s.UpdateDesignFile(ctx, f.ID, data, false)
	require.NoError(t, err)
	require.Len(t, updated.CanvasData.Layers, 1)
	assert.Equal(t, "layer_1", updated.CanvasData.Layers[0].ID)

	got, err := s.GetDesignFile(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CanvasData.Layers[0].Properties.Shape)
	assert.Equal(t, "#FF0000", got.CanvasData.Layers[0].Properties.Shape.Fill)

	require.NoError(t, s.DeleteDesignFile(ctx, f.ID))
	_, err = s.GetDesignFile(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	t.Run("create in missing project", func(t *testing.T) {
		_, err := s.CreateDesignFile(ctx, 999, "Orphan", nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListDesignFilesScopedToProject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p1, err := s.CreateProject(ctx, "One", "")
	require.NoError(t, err)
	p2, err := s.CreateProject(ctx, "Two", "")
	require.NoError(t, err)

	_, err = s.CreateDesignFile(ctx, p1.ID, "A", nil)
	require.NoError(t, err)
	_, err = s.CreateDesignFile(ctx, p2.ID, "B", nil)
	require.NoError(t, err)
	_, err = s.CreateDesignFile(ctx, p1.ID, "C", nil)
	require.NoError(t, err)

	files, err := s.ListDesignFiles(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, p1.ID, f.ProjectID)
	}
}

func TestVersionSnapshots(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Project", "")
	require.NoError(t, err)
	f, err := s.CreateDesignFile(ctx, p.ID, "Homepage", nil)
	require.NoError(t, err)

	v1 := testCanvas("layer_v1")
	_, err = s.UpdateDesignFile(ctx, f.ID, v1, true)
	require.NoError(t, err)
	v2 := testCanvas("layer_v2")
	_, err = s.UpdateDesignFile(ctx, f.ID, v2, true)
	require.NoError(t, err)
	// Unversioned save does not create a snapshot.
	_, err = s.UpdateDesignFile(ctx, f.ID, testCanvas("layer_v3"), false)
	require.NoError(t, err)

	versions, err := s.ListVersions(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber, "newest first")
	assert.Equal(t, 1, versions[1].VersionNumber)
	assert.Equal(t, "layer_v1", versions[1].CanvasData.Layers[0].ID)

	restored, err := s.RestoreVersion(ctx, f.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "layer_v1", restored.CanvasData.Layers[0].ID)

	// Restoring does not add a version; the next snapshot continues
	// the numbering.
	_, err = s.UpdateDesignFile(ctx, f.ID, testCanvas("layer_v4"), true)
	require.NoError(t, err)
	versions, err = s.ListVersions(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].VersionNumber)

	t.Run("missing version", func(t *testing.T) {
		_, err := s.RestoreVersion(ctx, f.ID, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDuplicateDesignFile(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Project", "")
	require.NoError(t, err)
	f, err := s.CreateDesignFile(ctx, p.ID, "Homepage", nil)
	require.NoError(t, err)
	_, err = s.UpdateDesignFile(ctx, f.ID, testCanvas("layer_1"), true)
	require.NoError(t, err)

	dup, err := s.DuplicateDesignFile(ctx, f.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Homepage Copy", dup.Name)
	assert.Equal(t, p.ID, dup.ProjectID)
	assert.NotEqual(t, f.ID, dup.ID)
	require.Len(t, dup.CanvasData.Layers, 1)

	// Versions belong to the original only.
	dupVersions, err := s.ListVersions(ctx, dup.ID)
	require.NoError(t, err)
	assert.Empty(t, dupVersions)

	named, err := s.DuplicateDesignFile(ctx, f.ID, "Homepage v2")
	require.NoError(t, err)
	assert.Equal(t, "Homepage v2", named.Name)
}

func TestComments(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Project", "")
	require.NoError(t, err)
	f, err := s.CreateDesignFile(ctx, p.ID, "Homepage", nil)
	require.NoError(t, err)

	first, err := s.AddComment(ctx, f.ID, 10, 20, "Make this blue", "Alice")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, f.ID, 30, 40, "Looks good", "Bob")
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID, "oldest first")
	assert.Equal(t, "Make this blue", comments[0].Content)
	assert.Equal(t, 10.0, comments[0].XPosition)
	assert.Equal(t, "Bob", comments[1].AuthorName)

	t.Run("comment on missing file", func(t *testing.T) {
		_, err := s.AddComment(ctx, 999, 0, 0, "ghost", "Alice")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteCascades(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Project", "")
	require.NoError(t, err)
	f, err := s.CreateDesignFile(ctx, p.ID, "Homepage", nil)
	require.NoError(t, err)
	_, err = s.UpdateDesignFile(ctx, f.ID, testCanvas("layer_1"), true)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, f.ID, 0, 0, "note", "Alice")
	require.NoError(t, err)

	t.Run("file delete removes versions and comments", func(t *testing.T) {
		require.NoError(t, s.DeleteDesignFile(ctx, f.ID))

		versions, err := s.ListVersions(ctx, f.ID)
		require.NoError(t, err)
		assert.Empty(t, versions)
		comments, err := s.ListComments(ctx, f.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)

		files, err := s.ListDesignFiles(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("project delete removes files", func(t *testing.T) {
		f2, err := s.CreateDesignFile(ctx, p.ID, "Pricing", nil)
		require.NoError(t, err)
		require.NoError(t, s.DeleteProject(ctx, p.ID))

		_, err = s.GetDesignFile(ctx, f2.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p1, err := s.CreateProject(ctx, "Alpha", "")
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, "Beta", "")
	require.NoError(t, err)
	f, err := s.CreateDesignFile(ctx, p1.ID, "Homepage", nil)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, f.ID, 0, 0, "note", "Alice")
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 1, stats.TotalDesignFiles)
	assert.Equal(t, 1, stats.TotalComments)
	require.Len(t, stats.RecentActivity, 3)

	var fileActivity *Activity
	for i := range stats.RecentActivity {
		if stats.RecentActivity[i].Type == "design_file" {
			fileActivity = &stats.RecentActivity[i]
		}
	}
	require.NotNil(t, fileActivity)
	assert.Equal(t, "Alpha", fileActivity.ProjectName)
	assert.Equal(t, "Homepage", fileActivity.DesignFileName)
}

func TestProjectStats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, "Alpha", "")
	require.NoError(t, err)
	f, err := s.CreateDesignFile(ctx, p.ID, "Homepage", nil)
	require.NoError(t, err)
	updated, err := s.UpdateDesignFile(ctx, f.ID, testCanvas("layer_1"), false)
	require.NoError(t, err)
	_, err = s.AddComment(ctx, f.ID, 0, 0, "note", "Alice")
	require.NoError(t, err)
	_, err = s.CreateDesignFile(ctx, p.ID, "Pricing", nil)
	require.NoError(t, err)

	stats, err := s.ProjectStats(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, stats.ProjectID)
	assert.Equal(t, 2, stats.DesignFileCount)
	assert.Equal(t, 1, stats.LayerCount)
	assert.Equal(t, 1, stats.CommentCount)
	assert.False(t, stats.LastUpdated.Before(updated.UpdatedAt))

	_, err = s.ProjectStats(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(dir)
	cfg.GCInterval = 0

	db, err := OpenDB(cfg)
	require.NoError(t, err)
	s := NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	ctx := context.Background()
	p, err := s.CreateProject(ctx, "Durable", "")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err = OpenDB(cfg)
	require.NoError(t, err)
	s = NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	t.Cleanup(func() { s.Close() })

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Name)

	// The id counter survives too.
	next, err := s.CreateProject(ctx, "Next", "")
	require.NoError(t, err)
	assert.Equal(t, p.ID+1, next.ID)
}
