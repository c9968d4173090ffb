// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package export

import (
	"strings"
	"testing"

	"github.com/designstudio/designstudio/services/design/canvas"

	"github.com/stretchr/testify/assert"
)

func visibleRect() canvas.Layer {
	return canvas.Layer{
		ID: "r1", Type: canvas.TypeRectangle, Name: "Header",
		X: 100, Y: 50, Width: 300, Height: 60,
		Visible: true, Opacity: 1,
		Properties: canvas.Properties{Shape: &canvas.ShapeProperties{
			Fill: "#6366F1", Stroke: "#4F46E5", StrokeWidth: 2, CornerRadius: 8,
		}},
	}
}

func TestSVG(t *testing.T) {
	t.Run("rectangle attributes", func(t *testing.T) {
		svg := SVG(canvas.CanvasData{Layers: []canvas.Layer{visibleRect()}})
		assert.Contains(t, svg, `viewBox="0 0 800 600"`)
		assert.Contains(t, svg, `<rect x="100" y="50" width="300" height="60" rx="8" fill="#6366F1" stroke="#4F46E5" stroke-width="2" opacity="1" />`)
	})

	t.Run("circle uses center and min radius", func(t *testing.T) {
		c := canvas.Layer{
			ID: "c1", Type: canvas.TypeCircle,
			X: 30, Y: 30, Width: 40, Height: 20,
			Visible: true, Opacity: 0.5,
			Properties: canvas.Properties{Shape: &canvas.ShapeProperties{}},
		}
		svg := SVG(canvas.CanvasData{Layers: []canvas.Layer{c}})
		assert.Contains(t, svg, `<circle cx="50" cy="40" r="10"`)
		assert.Contains(t, svg, `fill="#000"`)
		assert.Contains(t, svg, `stroke="none"`)
		assert.Contains(t, svg, `opacity="0.5"`)
	})

	t.Run("text escapes user content and defaults fonts", func(t *testing.T) {
		txt := canvas.Layer{
			ID: "t1", Type: canvas.TypeText,
			X: 10, Y: 20, Width: 200, Height: 30,
			Visible: true, Opacity: 1,
			Properties: canvas.Properties{Text: &canvas.TextProperties{
				Text: `<b>"cut" & 'paste'</b>`,
			}},
		}
		svg := SVG(canvas.CanvasData{Layers: []canvas.Layer{txt}})
		assert.Contains(t, svg, "&lt;b&gt;&quot;cut&quot; &amp; &#39;paste&#39;&lt;/b&gt;")
		// Baseline sits one default font size below the frame top.
		assert.Contains(t, svg, `<text x="10" y="36"`)
		assert.Contains(t, svg, `font-family="Arial" font-size="16" font-weight="normal"`)
	})

	t.Run("invisible layers and groups are skipped", func(t *testing.T) {
		hidden := visibleRect()
		hidden.ID = "hidden"
		hidden.Visible = false
		group := canvas.Layer{
			ID: "g1", Type: canvas.TypeGroup, Visible: true, Opacity: 1,
			Properties: canvas.Properties{Group: &canvas.GroupProperties{}},
		}
		svg := SVG(canvas.CanvasData{Layers: []canvas.Layer{hidden, group}})
		assert.NotContains(t, svg, "hidden")
		assert.NotContains(t, svg, "<rect")
	})

	t.Run("zero opacity coerces to one", func(t *testing.T) {
		r := visibleRect()
		r.Opacity = 0
		svg := SVG(canvas.CanvasData{Layers: []canvas.Layer{r}})
		assert.Contains(t, svg, `opacity="1"`)
	})

	t.Run("locked layers still export", func(t *testing.T) {
		r := visibleRect()
		r.Locked = true
		svg := SVG(canvas.CanvasData{Layers: []canvas.Layer{r}})
		assert.Contains(t, svg, "<rect")
	})
}

func TestCSS(t *testing.T) {
	t.Run("rectangle rule block", func(t *testing.T) {
		css := CSS(canvas.CanvasData{Layers: []canvas.Layer{visibleRect()}})
		assert.Contains(t, css, "/* Generated CSS from DesignStudio */")
		assert.Contains(t, css, ".designstudio-container {")
		assert.Contains(t, css, ".designstudio-rectangle-r1 {")
		assert.Contains(t, css, "left: 100px;")
		assert.Contains(t, css, "background-color: #6366F1;")
		assert.Contains(t, css, "border: 2px solid #4F46E5;")
		assert.Contains(t, css, "border-radius: 8px;")
	})

	t.Run("circle gets a fifty percent radius", func(t *testing.T) {
		c := canvas.Layer{
			ID: "c-1", Type: canvas.TypeCircle,
			X: 5, Y: 6, Width: 10, Height: 10, Visible: true, Opacity: 1,
			Properties: canvas.Properties{Shape: &canvas.ShapeProperties{}},
		}
		css := CSS(canvas.CanvasData{Layers: []canvas.Layer{c}})
		// Class names drop non-alphanumeric id characters.
		assert.Contains(t, css, ".designstudio-circle-c1 {")
		assert.Contains(t, css, "border-radius: 50%;")
		assert.Contains(t, css, "background-color: transparent;")
	})

	t.Run("text typography defaults", func(t *testing.T) {
		txt := canvas.Layer{
			ID: "t1", Type: canvas.TypeText,
			X: 0, Y: 0, Width: 100, Height: 20, Visible: true, Opacity: 1,
			Properties: canvas.Properties{Text: &canvas.TextProperties{Text: "hi"}},
		}
		css := CSS(canvas.CanvasData{Layers: []canvas.Layer{txt}})
		assert.Contains(t, css, "color: #000000;")
		assert.Contains(t, css, "font-size: 16px;")
		assert.Contains(t, css, "font-family: Arial;")
		assert.Contains(t, css, "text-align: left;")
		assert.Contains(t, css, "line-height: 1.2;")
	})

	t.Run("invisible layers produce no rule", func(t *testing.T) {
		hidden := visibleRect()
		hidden.Visible = false
		css := CSS(canvas.CanvasData{Layers: []canvas.Layer{hidden}})
		assert.Equal(t, 1, strings.Count(css, "{"), "only the container block remains")
	})
}

func TestDeterminism(t *testing.T) {
	doc := canvas.CanvasData{Layers: []canvas.Layer{visibleRect()}}
	assert.Equal(t, SVG(doc), SVG(doc))
	assert.Equal(t, CSS(doc), CSS(doc))
}
