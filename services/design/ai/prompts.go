// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/designstudio/designstudio/services/design/canvas"
)

const generateSystemPrompt = `You are a professional UI/UX designer. Generate a design layout based on the user's request.

VERY IMPORTANT: The entire design MUST be wrapped in a single top-level group layer. All other elements are children of this group. This is a strict requirement.

For text elements, use the "container" type. Text containers MUST have appropriate width and height so that the text fits inside with padding. Use word wrapping.

Return a JSON object with this exact structure:
{
  "canvas_data": {
    "layers": [
      {
        "id": "main_group_id",
        "type": "group",
        "name": "Generated Design",
        "x": 50, "y": 50, "width": 700, "height": 500,
        "visible": true, "locked": false, "opacity": 1, "rotation": 0,
        "properties": { "children": ["child_id_1", "child_id_2"] }
      },
      {
        "id": "child_id_1",
        "type": "container",
        "name": "Title Text",
        "parentId": "main_group_id",
        "x": 20, "y": 20, "width": 660, "height": 50,
        "visible": true, "locked": false, "opacity": 1, "rotation": 0,
        "properties": {
          "text": "My Awesome Landing Page",
          "fontSize": 32, "fontFamily": "Inter", "fontWeight": "bold", "fill": "#333333",
          "textAlign": "left", "verticalAlign": "middle", "wordWrap": true, "lineHeight": 1.4, "padding": 10, "overflow": "hidden"
        }
      },
      {
        "id": "child_id_2",
        "type": "rectangle",
        "name": "Header Background",
        "parentId": "main_group_id",
        "x": 0, "y": 0, "width": 700, "height": 90,
        "visible": true, "locked": false, "opacity": 1, "rotation": 0,
        "properties": { "fill": "#F3F4F6", "cornerRadius": 0 }
      }
    ],
    "viewport": { "x": 0, "y": 0, "zoom": 1 }
  },
  "design_description": "Brief description of the generated design"
}

Guidelines:
- The VERY FIRST layer in the array MUST be the main group.
- All other layers MUST have a "parentId" property pointing to the main group's ID.
- Child layer coordinates (x, y) are RELATIVE to the parent group.
- Use "container" for all text elements. Ensure the container's width and height are large enough for the text.
- Use realistic content, not just placeholders.
- For landing pages: header, hero, features, footer should be children of the main group.
- Apply the requested style consistently.`

const refineSystemPrompt = `You are a professional UI/UX designer helping to refine an existing design. You will receive the current design state and a user's refinement request.

Analyze the current design and apply the requested changes while maintaining design consistency and best practices.

Return a JSON object with this exact structure:
{
  "canvas_data": { /* the updated canvas data with refined layers */ },
  "changes_description": "Brief description of what was changed"
}

Rules:
- Keep the same layer structure unless the user specifically requests additions/deletions
- Maintain design consistency
- Only modify what the user specifically requests
- If refining a specific layer (selected_layer_id provided), focus changes on that layer
- Preserve layer IDs and hierarchy
- Make logical color, size, and positioning changes based on the request`

var styleNotes = map[string]string{
	"minimal":   "Clean, lots of whitespace, simple typography",
	"modern":    "Contemporary, sleek, professional",
	"playful":   "Fun, vibrant, creative elements",
	"corporate": "Professional, trustworthy, clean",
	"creative":  "Artistic, unique, experimental",
}

func buildGeneratePrompt(req GenerateRequest) string {
	style := req.Style
	if style == "" {
		style = "modern"
	}
	colorScheme := req.ColorScheme
	if colorScheme == "" {
		colorScheme = "blue"
	}
	designType := req.DesignType
	if designType == "" {
		designType = "general"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s design with %s style and %s color scheme.\n\n", designType, style, colorScheme)
	fmt.Fprintf(&b, "User request: %s\n\n", req.Prompt)
	b.WriteString("Style requirements:\n")
	if note, ok := styleNotes[style]; ok {
		fmt.Fprintf(&b, "- %s\n", note)
	}
	fmt.Fprintf(&b, "\nColor scheme: %s tones\n\n", colorScheme)
	b.WriteString("REMEMBER:\n")
	b.WriteString("- The entire design must be a single group.\n")
	b.WriteString("- All text must be in a 'container' with proper dimensions and word wrapping.")
	return b.String()
}

func buildRefinePrompt(current canvas.CanvasData, refinement, selectedLayerID string) (string, error) {
	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal current design: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current design:\n%s\n\nUser refinement request: %s", currentJSON, refinement)
	if selectedLayerID != "" {
		fmt.Fprintf(&b, "\n\nFocus refinements on layer ID: %s", selectedLayerID)
	}
	return b.String(), nil
}

// extractJSON returns the outermost JSON object embedded in a model
// response, tolerating prose before and after it.
func extractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}
