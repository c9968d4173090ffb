// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "github.com/designstudio/designstudio/services/design/canvas"

// GenerateDesignRequest is the body for POST /v1/generate-design.
type GenerateDesignRequest struct {
	Prompt      string `json:"prompt" validate:"required,promptbytes"`
	Style       string `json:"style" validate:"omitempty,oneof=modern minimal playful corporate creative"`
	ColorScheme string `json:"color_scheme" validate:"omitempty,oneof=blue green purple orange monochrome colorful"`
	DesignType  string `json:"design_type" validate:"omitempty,oneof=landing_page mobile_app poster dashboard presentation"`
}

func (r *GenerateDesignRequest) Validate() error {
	return validate.Struct(r)
}

// GenerateDesignResponse carries the generated canvas.
type GenerateDesignResponse struct {
	CanvasData        canvas.CanvasData `json:"canvas_data"`
	DesignDescription string            `json:"design_description"`
}

// RefineDesignRequest is the body for POST /v1/refine-design.
type RefineDesignRequest struct {
	CurrentCanvasData canvas.CanvasData `json:"current_canvas_data"`
	RefinementPrompt  string            `json:"refinement_prompt" validate:"required,promptbytes"`
	SelectedLayerID   string            `json:"selected_layer_id"`
}

func (r *RefineDesignRequest) Validate() error {
	return validate.Struct(r)
}

// RefineDesignResponse carries the refined canvas.
type RefineDesignResponse struct {
	CanvasData         canvas.CanvasData `json:"canvas_data"`
	ChangesDescription string            `json:"changes_description"`
}
