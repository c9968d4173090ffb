// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/designstudio/designstudio/services/design/export"
	"github.com/designstudio/designstudio/services/design/store"
)

func ExportSVG(s *store.Store) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gin.H{"svg": export.SVG(f.CanvasData)})
	}
}

func ExportCSS(s *store.Store) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, gin.H{"css": export.CSS(f.CanvasData)})
	}
}
