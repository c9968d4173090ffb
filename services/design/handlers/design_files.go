// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/designstudio/designstudio/services/design/canvas"
	"github.com/designstudio/designstudio/services/design/datatypes"
	"github.com/designstudio/designstudio/services/design/store"
)

func CreateDesignFile(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateDesignFileRequest
		if !bindAndValidate(c, &req) {
			return
		}
		if req.CanvasData != nil {
			if _, err := canvas.FromCanvas(*req.CanvasData); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		f, err := s.CreateDesignFile(c.Request.Context(), req.ProjectID, req.Name, req.CanvasData)
		if err != nil {
			respondStoreError(c, err, "project")
			return
		}
		c.JSON(http.StatusOK, datatypes.DesignFileResponse{DesignFile: *f})
	}
}

func GetDesignFile(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		f, err := s.GetDesignFile(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err, "design file")
			return
		}
		c.JSON(http.StatusOK, datatypes.DesignFileResponse{DesignFile: *f})
	}
}

func ListDesignFiles(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, ok := idParam(c, "id")
		if !ok {
			return
		}
		files, err := s.ListDesignFiles(c.Request.Context(), projectID)
		if err != nil {
			respondStoreError(c, err, "design files")
			return
		}
		c.JSON(http.StatusOK, datatypes.ListDesignFilesResponse{DesignFiles: files})
	}
}

// UpdateDesignFile replaces a design file's canvas. The incoming canvas
// must satisfy the layer tree invariants; a canvas that fails
// validation is rejected without touching storage.
func UpdateDesignFile(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req datatypes.UpdateDesignFileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if _, err := canvas.FromCanvas(req.CanvasData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f, err := s.UpdateDesignFile(c.Request.Context(), id, req.CanvasData, req.SaveVersion)
		if err != nil {
			respondStoreError(c, err, "design file")
			return
		}
		c.JSON(http.StatusOK, datatypes.DesignFileResponse{DesignFile: *f})
	}
}

func DeleteDesignFile(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteDesignFile(c.Request.Context(), id); err != nil {
			respondStoreError(c, err, "design file")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_design_file_id": id})
	}
}

func DuplicateDesignFile(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		// The body is optional; an absent body means default naming.
		var req datatypes.DuplicateDesignFileRequest
		if c.Request.ContentLength > 0 {
			if !bindAndValidate(c, &req) {
				return
			}
		}
		f, err := s.DuplicateDesignFile(c.Request.Context(), id, req.Name)
		if err != nil {
			respondStoreError(c, err, "design file")
			return
		}
		c.JSON(http.StatusOK, datatypes.DesignFileResponse{DesignFile: *f})
	}
}

func ListVersions(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		versions, err := s.ListVersions(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err, "versions")
			return
		}
		c.JSON(http.StatusOK, datatypes.ListVersionsResponse{Versions: versions})
	}
}

func RestoreVersion(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		version, err := strconv.Atoi(c.Param("version"))
		if err != nil || version <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
			return
		}
		f, err := s.RestoreVersion(c.Request.Context(), id, version)
		if err != nil {
			respondStoreError(c, err, "version")
			return
		}
		c.JSON(http.StatusOK, datatypes.DesignFileResponse{DesignFile: *f})
	}
}

func AddComment(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req datatypes.AddCommentRequest
		if !bindAndValidate(c, &req) {
			return
		}
		comment, err := s.AddComment(c.Request.Context(), id,
			req.XPosition, req.YPosition, req.Content, req.AuthorName)
		if err != nil {
			respondStoreError(c, err, "design file")
			return
		}
		c.JSON(http.StatusOK, datatypes.CommentResponse{Comment: *comment})
	}
}

func ListComments(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		comments, err := s.ListComments(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err, "comments")
			return
		}
		c.JSON(http.StatusOK, datatypes.ListCommentsResponse{Comments: comments})
	}
}
