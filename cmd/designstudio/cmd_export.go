// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/designstudio/designstudio/services/design/export"
	"github.com/designstudio/designstudio/services/design/store"
)

var (
	exportFormat  string
	exportOut     string
	exportDataDir string

	exportCmd = &cobra.Command{
		Use:   "export [design-file-id]",
		Short: "Export a design file to SVG or CSS without running the server",
		Args:  cobra.ExactArgs(1),
		Run:   runExport,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "svg",
		"output format: svg or css")
	exportCmd.Flags().StringVar(&exportOut, "out", "",
		"output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportDataDir, "data-dir", "",
		"database directory (overrides DESIGNSTUDIO_DATA_DIR)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	fileID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || fileID <= 0 {
		log.Fatalf("Invalid design file id: %q", args[0])
	}

	dataDir := exportDataDir
	if dataDir == "" {
		dataDir = getEnvString("DESIGNSTUDIO_DATA_DIR", "./data/designstudio")
	}

	// One-shot open: no GC loop, no sync pressure on reads.
	storeCfg := store.DefaultConfig(dataDir)
	storeCfg.GCInterval = 0
	db, err := store.OpenDB(storeCfg)
	if err != nil {
		log.Fatalf("Failed to open database at %s: %v", dataDir, err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s := store.NewStore(db, logger, nil)

	f, err := s.GetDesignFile(context.Background(), fileID)
	if err != nil {
		log.Fatalf("Failed to load design file %d: %v", fileID, err)
	}

	var output string
	switch exportFormat {
	case "svg":
		output = export.SVG(f.CanvasData)
	case "css":
		output = export.CSS(f.CanvasData)
	default:
		log.Fatalf("Unknown format %q (want svg or css)", exportFormat)
	}

	if exportOut == "" {
		fmt.Println(output)
		return
	}
	if err := os.WriteFile(exportOut, []byte(output), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", exportOut, err)
	}
	slog.Info("exported design file",
		"design_file_id", fileID, "format", exportFormat, "out", exportOut)
}
