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

	"github.com/designstudio/designstudio/services/design/datatypes"
	"github.com/designstudio/designstudio/services/design/store"
)

func CreateProject(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateProjectRequest
		if !bindAndValidate(c, &req) {
			return
		}
		p, err := s.CreateProject(c.Request.Context(), req.Name, req.Description)
		if err != nil {
			respondStoreError(c, err, "project")
			return
		}
		c.JSON(http.StatusOK, datatypes.ProjectResponse{Project: *p})
	}
}

func ListProjects(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := s.ListProjects(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "projects")
			return
		}
		c.JSON(http.StatusOK, datatypes.ListProjectsResponse{Projects: projects})
	}
}

func GetProject(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		p, err := s.GetProject(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err, "project")
			return
		}
		c.JSON(http.StatusOK, datatypes.ProjectResponse{Project: *p})
	}
}

func UpdateProject(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req datatypes.UpdateProjectRequest
		if !bindAndValidate(c, &req) {
			return
		}
		p, err := s.UpdateProject(c.Request.Context(), id, store.ProjectUpdate{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondStoreError(c, err, "project")
			return
		}
		c.JSON(http.StatusOK, datatypes.ProjectResponse{Project: *p})
	}
}

func DeleteProject(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := s.DeleteProject(c.Request.Context(), id); err != nil {
			respondStoreError(c, err, "project")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_project_id": id})
	}
}

func SearchProjects(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("query")
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		projects, err := s.SearchProjects(c.Request.Context(), query, limit)
		if err != nil {
			respondStoreError(c, err, "projects")
			return
		}
		c.JSON(http.StatusOK, datatypes.ListProjectsResponse{Projects: projects})
	}
}

func GetProjectStats(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		stats, err := s.ProjectStats(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err, "project")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func GetStats(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.Stats(c.Request.Context())
		if err != nil {
			respondStoreError(c, err, "stats")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
