// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "github.com/designstudio/designstudio/services/design/store"

// CreateProjectRequest is the body for POST /v1/projects.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

func (r *CreateProjectRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateProjectRequest is the body for PUT /v1/projects/:id. Nil fields
// are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (r *UpdateProjectRequest) Validate() error {
	return validate.Struct(r)
}

// ProjectResponse wraps a single project.
type ProjectResponse struct {
	Project store.Project `json:"project"`
}

// ListProjectsResponse wraps a project listing.
type ListProjectsResponse struct {
	Projects []store.Project `json:"projects"`
}

// AddCommentRequest is the body for POST /v1/design-files/:id/comments.
type AddCommentRequest struct {
	XPosition  float64 `json:"x_position"`
	YPosition  float64 `json:"y_position"`
	Content    string  `json:"content" validate:"required,commentbytes"`
	AuthorName string  `json:"author_name" validate:"required,max=200"`
}

func (r *AddCommentRequest) Validate() error {
	return validate.Struct(r)
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment store.Comment `json:"comment"`
}

// ListCommentsResponse wraps a comment listing.
type ListCommentsResponse struct {
	Comments []store.Comment `json:"comments"`
}
