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
	"time"

	"github.com/designstudio/designstudio/pkg/validation"
	"github.com/designstudio/designstudio/services/design/canvas"
)

// normalizeCanvas turns the model's loosely-shaped canvas into valid
// canvas data: missing fields get defaults and parent/child references
// are reconciled so the strict tree validation can accept the result.
func normalizeCanvas(raw *rawCanvas) (canvas.CanvasData, error) {
	layers := make([]canvas.Layer, 0, len(raw.Layers))
	for i, rawLayer := range raw.Layers {
		l, err := decodeLayer(rawLayer, i)
		if err != nil {
			return canvas.CanvasData{}, err
		}
		layers = append(layers, l)
	}
	layers = reconcile(layers)

	viewport := canvas.Viewport{Zoom: 1}
	if raw.Viewport != nil {
		viewport = *raw.Viewport
		if viewport.Zoom == 0 {
			viewport.Zoom = 1
		}
	}
	return canvas.CanvasData{Layers: layers, Viewport: viewport}, nil
}

// decodeLayer decodes one model-produced layer, defaulting the fields
// models commonly omit. A missing type becomes a rectangle.
func decodeLayer(raw json.RawMessage, index int) (canvas.Layer, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return canvas.Layer{}, fmt.Errorf("layer %d is not an object: %w", index, err)
	}
	if t, ok := fields["type"]; !ok || string(t) == `""` || string(t) == "null" {
		fields["type"] = json.RawMessage(`"rectangle"`)
		raw, _ = json.Marshal(fields)
	}

	var l canvas.Layer
	if err := json.Unmarshal(raw, &l); err != nil {
		return canvas.Layer{}, fmt.Errorf("layer %d: %w", index, err)
	}

	if validation.ValidateLayerID(l.ID) != nil {
		l.ID = fmt.Sprintf("ai_layer_%d_%d", time.Now().UnixMilli(), index)
	}
	if l.Name == "" {
		l.Name = fmt.Sprintf("AI Layer %d", index+1)
	}
	if l.Width <= 0 {
		l.Width = 100
	}
	if l.Height <= 0 {
		l.Height = 100
	}
	if l.Type == canvas.TypeText {
		normalizeText(&l)
	}
	return l, nil
}

// normalizeText forces the container conventions the editor relies on:
// wrapped, clipped text with padding.
func normalizeText(l *canvas.Layer) {
	if l.Properties.Text == nil {
		l.Properties.Text = &canvas.TextProperties{}
	}
	t := l.Properties.Text
	t.WordWrap = true
	t.LineHeight = 1.4
	t.Overflow = "hidden"
	if t.Padding == 0 {
		t.Padding = 10
	}
	if t.VerticalAlign == "" {
		t.VerticalAlign = "top"
	}
}

// reconcile repairs parent/child bookkeeping: dangling parent ids are
// cleared, group membership implied by either side is honored, and
// each group's children list is rebuilt to agree with the layers'
// parent ids.
func reconcile(layers []canvas.Layer) []canvas.Layer {
	byID := make(map[string]*canvas.Layer, len(layers))
	for i := range layers {
		byID[layers[i].ID] = &layers[i]
	}

	// A group's children list claims unparented layers.
	for i := range layers {
		g := &layers[i]
		if g.Type != canvas.TypeGroup || g.Properties.Group == nil {
			continue
		}
		for _, id := range g.Properties.Group.Children {
			if child, ok := byID[id]; ok && child.ParentID == "" && id != g.ID {
				child.ParentID = g.ID
			}
		}
	}

	// Parent ids must point at an existing group.
	for i := range layers {
		l := &layers[i]
		if l.ParentID == "" {
			continue
		}
		parent, ok := byID[l.ParentID]
		if !ok || parent.Type != canvas.TypeGroup || l.ParentID == l.ID {
			l.ParentID = ""
		}
	}

	// Rebuild children lists from the now-consistent parent ids,
	// keeping each group's declared order for members it already had.
	for i := range layers {
		g := &layers[i]
		if g.Type != canvas.TypeGroup {
			continue
		}
		if g.Properties.Group == nil {
			g.Properties.Group = &canvas.GroupProperties{}
		}
		seen := make(map[string]bool)
		var children []string
		for _, id := range g.Properties.Group.Children {
			child, ok := byID[id]
			if ok && child.ParentID == g.ID && !seen[id] {
				children = append(children, id)
				seen[id] = true
			}
		}
		for j := range layers {
			if layers[j].ParentID == g.ID && !seen[layers[j].ID] {
				children = append(children, layers[j].ID)
				seen[layers[j].ID] = true
			}
		}
		g.Properties.Group.Children = children
	}
	return layers
}
