// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers provides gin handlers for the design service.
// Handlers are closures over their dependencies so routes can be wired
// without package-level state.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/designstudio/designstudio/services/design/store"
)

// idParam parses a numeric path parameter. On failure it writes a 400
// response and returns false.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondStoreError translates store failures: missing records become
// 404, everything else is a 500 with the detail kept in the log.
func respondStoreError(c *gin.Context, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	slog.Error("store operation failed", "error", err, "resource", what)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
}

// bindAndValidate decodes the JSON body into req and runs its
// validator. On failure it writes a 400 response and returns false.
func bindAndValidate(c *gin.Context, req interface {
	Validate() error
}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
