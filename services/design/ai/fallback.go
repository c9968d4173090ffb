// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ai

import "github.com/designstudio/designstudio/services/design/canvas"

const fallbackDescription = "Fallback design generated due to AI service unavailability"

// fallbackResult builds the deterministic document served when the
// model is unavailable or returns garbage: a single group holding a
// header bar and a title container echoing the prompt.
func fallbackResult(prompt string) *GenerateResult {
	const groupID = "fallback_main_group"

	title := prompt
	if title == "" {
		title = "AI-Generated Design (Fallback)"
	}

	return &GenerateResult{
		CanvasData: canvas.CanvasData{
			Layers: []canvas.Layer{
				{
					ID:      groupID,
					Type:    canvas.TypeGroup,
					Name:    "Fallback Design Group",
					X:       50,
					Y:       50,
					Width:   700,
					Height:  200,
					Visible: true,
					Opacity: 1,
					Properties: canvas.Properties{
						Group: &canvas.GroupProperties{
							Children: []string{"fallback_header_rect", "fallback_title_text"},
						},
					},
				},
				{
					ID:       "fallback_header_rect",
					Type:     canvas.TypeRectangle,
					Name:     "Header Background",
					ParentID: groupID,
					Width:    700,
					Height:   80,
					Visible:  true,
					Opacity:  1,
					Properties: canvas.Properties{
						Shape: &canvas.ShapeProperties{Fill: "#3B82F6", CornerRadius: 8},
					},
				},
				{
					ID:       "fallback_title_text",
					Type:     canvas.TypeText,
					Name:     "Main Title",
					ParentID: groupID,
					X:        20,
					Y:        15,
					Width:    660,
					Height:   50,
					Visible:  true,
					Opacity:  1,
					Properties: canvas.Properties{
						Text: &canvas.TextProperties{
							Text:          title,
							FontSize:      24,
							FontFamily:    "Inter",
							FontWeight:    "bold",
							Fill:          "#FFFFFF",
							TextAlign:     "left",
							VerticalAlign: "middle",
							WordWrap:      true,
							LineHeight:    1.2,
							Overflow:      "hidden",
						},
					},
				},
			},
			Viewport: canvas.Viewport{Zoom: 1},
		},
		Description: fallbackDescription,
	}
}
