// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command designstudio starts the DesignStudio design server or runs
// one-off operations against its database.
//
// # Environment Variables
//
//   - DESIGNSTUDIO_PORT: HTTP server port (default: 12310)
//   - DESIGNSTUDIO_DATA_DIR: Badger database directory (default: ./data/designstudio)
//   - DESIGNSTUDIO_LOG_DIR: directory for daily JSON log files (optional)
//   - OPENAI_API_KEY: enables the AI design endpoints
//   - OPENAI_MODEL: chat model for design generation (default: gpt-4o-mini)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (optional; tracing off when unset)
//
// # Usage
//
//	# Build
//	go build -o designstudio ./cmd/designstudio
//
//	# Run the server
//	./designstudio serve
//
//	# Export a design file without the server
//	./designstudio export 3 --format svg --out homepage.svg
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "designstudio",
	Short: "A collaborative vector design server",
	Long: `DesignStudio serves a layer-tree design editor backend:
projects and design files with version history, realtime multiplayer
editing over websockets, AI-assisted design generation, and SVG/CSS
export.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
