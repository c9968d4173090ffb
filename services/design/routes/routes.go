// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/designstudio/designstudio/services/design/ai"
	"github.com/designstudio/designstudio/services/design/collab"
	"github.com/designstudio/designstudio/services/design/handlers"
	"github.com/designstudio/designstudio/services/design/middleware"
	"github.com/designstudio/designstudio/services/design/store"
)

// SetupRoutes wires the design service's HTTP surface. aiService may be
// nil when no API key is configured; the AI endpoints are then absent.
func SetupRoutes(router *gin.Engine, s *store.Store, hub *collab.Hub, aiService *ai.Service) {
	router.Use(middleware.CORS())
	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.POST("", handlers.CreateProject(s))
			projects.GET("", handlers.ListProjects(s))
			projects.GET("/search", handlers.SearchProjects(s))
			projects.GET("/:id", handlers.GetProject(s))
			projects.PUT("/:id", handlers.UpdateProject(s))
			projects.DELETE("/:id", handlers.DeleteProject(s))
			projects.GET("/:id/stats", handlers.GetProjectStats(s))
			projects.GET("/:id/design-files", handlers.ListDesignFiles(s))
		}

		files := v1.Group("/design-files")
		{
			files.POST("", handlers.CreateDesignFile(s))
			files.GET("/:id", handlers.GetDesignFile(s))
			files.PUT("/:id", handlers.UpdateDesignFile(s))
			files.DELETE("/:id", handlers.DeleteDesignFile(s))
			files.POST("/:id/duplicate", handlers.DuplicateDesignFile(s))
			files.GET("/:id/versions", handlers.ListVersions(s))
			files.POST("/:id/restore/:version", handlers.RestoreVersion(s))
			files.POST("/:id/comments", handlers.AddComment(s))
			files.GET("/:id/comments", handlers.ListComments(s))
			files.GET("/:id/export/svg", handlers.ExportSVG(s))
			files.GET("/:id/export/css", handlers.ExportCSS(s))
		}

		v1.GET("/stats", handlers.GetStats(s))
		v1.GET("/collaborate", handlers.Collaborate(hub, s))

		if aiService != nil {
			v1.POST("/generate-design", handlers.GenerateDesign(aiService))
			v1.POST("/refine-design", handlers.RefineDesign(aiService))
		}
	}
}
