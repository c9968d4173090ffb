// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"time"

	"github.com/designstudio/designstudio/services/design/canvas"
)

// Project groups related design files.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DesignFile is a named canvas belonging to a project.
type DesignFile struct {
	ID         int64             `json:"id"`
	ProjectID  int64             `json:"project_id"`
	Name       string            `json:"name"`
	CanvasData canvas.CanvasData `json:"canvas_data"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// DesignVersion is a numbered snapshot of a design file's canvas.
// Version numbers start at 1 and are contiguous per design file.
type DesignVersion struct {
	ID            int64             `json:"id"`
	DesignFileID  int64             `json:"design_file_id"`
	VersionNumber int               `json:"version_number"`
	CanvasData    canvas.CanvasData `json:"canvas_data"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Comment is an annotation pinned to a point on a design file's canvas.
type Comment struct {
	ID           int64     `json:"id"`
	DesignFileID int64     `json:"design_file_id"`
	XPosition    float64   `json:"x_position"`
	YPosition    float64   `json:"y_position"`
	Content      string    `json:"content"`
	AuthorName   string    `json:"author_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Activity is a recent-creation entry for the stats endpoint.
type Activity struct {
	Type           string    `json:"type"`
	ProjectName    string    `json:"project_name"`
	DesignFileName string    `json:"design_file_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProjectStats summarizes one project's contents.
type ProjectStats struct {
	ProjectID       int64     `json:"project_id"`
	DesignFileCount int       `json:"design_file_count"`
	LayerCount      int       `json:"layer_count"`
	CommentCount    int       `json:"comment_count"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Stats summarizes platform-wide counts and recent activity.
type Stats struct {
	TotalProjects    int        `json:"total_projects"`
	TotalDesignFiles int        `json:"total_design_files"`
	TotalComments    int        `json:"total_comments"`
	RecentActivity   []Activity `json:"recent_activity"`
}
