// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/designstudio/designstudio/pkg/validation"
	"github.com/designstudio/designstudio/services/design/collab"
	"github.com/designstudio/designstudio/services/design/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// Collaborate upgrades the connection to a websocket and joins the
// design file's room. The handshake rides the query string:
// design_file_id (required, must exist), user_id (generated when
// absent), user_name.
//
// Structural mutations are NOT applied server-side here; peers
// broadcast edits and reconcile through a reload of the design file.
func Collaborate(hub *collab.Hub, s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileID, err := strconv.ParseInt(c.Query("design_file_id"), 10, 64)
		if err != nil || fileID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid design_file_id"})
			return
		}
		if _, err := s.GetDesignFile(c.Request.Context(), fileID); err != nil {
			respondStoreError(c, err, "design file")
			return
		}

		userID := c.Query("user_id")
		if userID == "" {
			userID = uuid.NewString()
		}
		userName := validation.SanitizeDisplayName(c.Query("user_name"))

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}

		client := hub.Join(strconv.FormatInt(fileID, 10), userID, userName, ws)
		slog.Info("collaboration client connected",
			"design_file_id", fileID, "user_id", userID)

		go client.WritePump()
		client.ReadPump()
		slog.Info("collaboration client disconnected",
			"design_file_id", fileID, "user_id", userID)
	}
}
