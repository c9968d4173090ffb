// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/designstudio/designstudio/pkg/logging"
	"github.com/designstudio/designstudio/services/design"
)

var (
	servePort    int
	serveDataDir string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the DesignStudio HTTP and websocket server",
		Run:   runServe,
	}
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"HTTP port (overrides DESIGNSTUDIO_PORT)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "",
		"database directory (overrides DESIGNSTUDIO_DATA_DIR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	// Setup structured logging. JSON to stderr; DESIGNSTUDIO_LOG_DIR
	// additionally writes daily JSON log files.
	appLogger := logging.New(logging.Config{
		Level:   logging.LevelInfo,
		JSON:    true,
		Service: "design",
		LogDir:  os.Getenv("DESIGNSTUDIO_LOG_DIR"),
	})
	defer appLogger.Close()
	logger := appLogger.Slog()
	slog.SetDefault(logger)

	cfg := design.Config{
		Port:          getEnvInt("DESIGNSTUDIO_PORT", 12310),
		DataDir:       getEnvString("DESIGNSTUDIO_DATA_DIR", "./data/designstudio"),
		OTelEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		EnableMetrics: true,
		Logger:        logger,
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveDataDir != "" {
		cfg.DataDir = serveDataDir
	}

	slog.Info("Starting DesignStudio",
		"port", cfg.Port,
		"data_dir", cfg.DataDir,
		"otel_endpoint", cfg.OTelEndpoint,
	)

	svc, err := design.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create design service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Design service error: %v", err)
	}
}
