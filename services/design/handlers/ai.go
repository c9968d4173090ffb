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

	"github.com/designstudio/designstudio/services/design/ai"
	"github.com/designstudio/designstudio/services/design/datatypes"
)

// GenerateDesign produces an AI design document. The AI service
// degrades internally, so this endpoint never fails on model trouble.
func GenerateDesign(svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.GenerateDesignRequest
		if !bindAndValidate(c, &req) {
			return
		}
		result := svc.Generate(c.Request.Context(), ai.GenerateRequest{
			Prompt:      req.Prompt,
			Style:       req.Style,
			ColorScheme: req.ColorScheme,
			DesignType:  req.DesignType,
		})
		c.JSON(http.StatusOK, datatypes.GenerateDesignResponse{
			CanvasData:        result.CanvasData,
			DesignDescription: result.Description,
		})
	}
}

func RefineDesign(svc *ai.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.RefineDesignRequest
		if !bindAndValidate(c, &req) {
			return
		}
		result := svc.Refine(c.Request.Context(),
			req.CurrentCanvasData, req.RefinementPrompt, req.SelectedLayerID)
		c.JSON(http.StatusOK, datatypes.RefineDesignResponse{
			CanvasData:         result.CanvasData,
			ChangesDescription: result.Description,
		})
	}
}
