// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"github.com/designstudio/designstudio/services/design/canvas"
	"github.com/designstudio/designstudio/services/design/store"
)

// CreateDesignFileRequest is the body for POST /v1/design-files. A nil
// CanvasData means an empty canvas.
type CreateDesignFileRequest struct {
	ProjectID  int64              `json:"project_id" validate:"required,gt=0"`
	Name       string             `json:"name" validate:"required,max=200"`
	CanvasData *canvas.CanvasData `json:"canvas_data"`
}

func (r *CreateDesignFileRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateDesignFileRequest is the body for PUT /v1/design-files/:id.
// SaveVersion additionally records the canvas as a numbered snapshot.
type UpdateDesignFileRequest struct {
	CanvasData  canvas.CanvasData `json:"canvas_data"`
	SaveVersion bool              `json:"save_version"`
}

// DuplicateDesignFileRequest is the optional body for
// POST /v1/design-files/:id/duplicate.
type DuplicateDesignFileRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
}

func (r *DuplicateDesignFileRequest) Validate() error {
	return validate.Struct(r)
}

// DesignFileResponse wraps a single design file.
type DesignFileResponse struct {
	DesignFile store.DesignFile `json:"design_file"`
}

// ListDesignFilesResponse wraps a design file listing.
type ListDesignFilesResponse struct {
	DesignFiles []store.DesignFile `json:"design_files"`
}

// ListVersionsResponse wraps a version listing, newest first.
type ListVersionsResponse struct {
	Versions []store.DesignVersion `json:"versions"`
}
