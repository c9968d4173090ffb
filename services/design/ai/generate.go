// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/designstudio/designstudio/services/design/canvas"
)

const (
	generateTemperature = 0.7
	generateMaxTokens   = 4000
	refineTemperature   = 0.5
	refineMaxTokens     = 3000

	rootGroupName = "Generated Design"
)

// GenerateRequest describes the design to generate. Style, ColorScheme,
// and DesignType are free-form hints; empty values get defaults.
type GenerateRequest struct {
	Prompt      string
	Style       string
	ColorScheme string
	DesignType  string
}

// GenerateResult is a generated canvas plus the model's description.
type GenerateResult struct {
	CanvasData  canvas.CanvasData `json:"canvas_data"`
	Description string            `json:"design_description"`
}

// RefineResult is a refined canvas plus a description of the changes.
type RefineResult struct {
	CanvasData  canvas.CanvasData `json:"canvas_data"`
	Description string            `json:"changes_description"`
}

// generatePayload is the JSON shape the model is instructed to return.
// Layers stay raw so missing fields can be defaulted before the strict
// canvas decode.
type generatePayload struct {
	CanvasData  *rawCanvas `json:"canvas_data"`
	Description string     `json:"design_description"`
}

type refinePayload struct {
	CanvasData  *rawCanvas `json:"canvas_data"`
	Description string     `json:"changes_description"`
}

type rawCanvas struct {
	Layers   []json.RawMessage `json:"layers"`
	Viewport *canvas.Viewport  `json:"viewport"`
}

// Generate asks the model for a design document. Model failures and
// malformed output never surface to the caller: the deterministic
// fallback document is returned instead.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) *GenerateResult {
	result, err := s.tryGenerate(ctx, req)
	if err != nil {
		s.logger.Warn("design generation failed, using fallback", slog.String("error", err.Error()))
		return fallbackResult(req.Prompt)
	}
	return result
}

func (s *Service) tryGenerate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	content, err := s.complete(ctx, generateSystemPrompt, buildGeneratePrompt(req),
		generateTemperature, generateMaxTokens)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	var payload generatePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if payload.CanvasData == nil || len(payload.CanvasData.Layers) == 0 {
		return nil, fmt.Errorf("model response has no layers")
	}

	data, err := normalizeCanvas(payload.CanvasData)
	if err != nil {
		return nil, err
	}
	doc, err := canvas.FromCanvas(data)
	if err != nil {
		return nil, fmt.Errorf("model produced inconsistent layer tree: %w", err)
	}
	if _, _, err := doc.EnsureSingleRoot(rootGroupName); err != nil {
		return nil, err
	}

	description := payload.Description
	if description == "" {
		description = "AI-generated design"
	}
	return &GenerateResult{CanvasData: doc.ToCanvas(), Description: description}, nil
}

// Refine asks the model to adjust an existing design. On any failure
// the input canvas comes back unchanged with an apologetic description.
func (s *Service) Refine(ctx context.Context, current canvas.CanvasData, refinement, selectedLayerID string) *RefineResult {
	result, err := s.tryRefine(ctx, current, refinement, selectedLayerID)
	if err != nil {
		s.logger.Warn("design refinement failed, returning input unchanged",
			slog.String("error", err.Error()))
		return &RefineResult{
			CanvasData:  current,
			Description: "Unable to refine design at this time. Please try again.",
		}
	}
	return result
}

func (s *Service) tryRefine(ctx context.Context, current canvas.CanvasData, refinement, selectedLayerID string) (*RefineResult, error) {
	userPrompt, err := buildRefinePrompt(current, refinement, selectedLayerID)
	if err != nil {
		return nil, err
	}
	content, err := s.complete(ctx, refineSystemPrompt, userPrompt,
		refineTemperature, refineMaxTokens)
	if err != nil {
		return nil, err
	}

	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	var payload refinePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	if payload.CanvasData == nil {
		return nil, fmt.Errorf("model response has no canvas data")
	}

	data, err := normalizeCanvas(payload.CanvasData)
	if err != nil {
		return nil, err
	}
	// A refinement that breaks tree consistency is discarded.
	if _, err := canvas.FromCanvas(data); err != nil {
		return nil, fmt.Errorf("model produced inconsistent layer tree: %w", err)
	}

	description := payload.Description
	if description == "" {
		description = "Design refined based on your request"
	}
	return &RefineResult{CanvasData: data, Description: description}, nil
}
