// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package export projects a canvas document onto static formats.
//
// Both projections are pure functions of a CanvasData: they walk the
// stored layer sequence in paint order, skip invisible layers, and
// substitute documented defaults for every optional field. Locked state
// has no effect on export. Groups carry no paint of their own: the SVG
// projection skips them, the CSS projection emits a bare positioned
// block (matching the reference output).
package export

import (
	"strconv"
	"strings"

	"github.com/designstudio/designstudio/services/design/canvas"
)

// Canvas extent of the exported artboard.
const (
	ArtboardWidth  = 800
	ArtboardHeight = 600
)

// Defaults applied when a property is absent.
const (
	defaultFill     = "#000"
	defaultTextFill = "#000000"
	defaultFont     = "Arial"
	defaultFontSize = 16
)

// SVG renders the document as a standalone SVG string.
func SVG(c canvas.CanvasData) string {
	var elements []string
	for _, l := range c.Layers {
		if !l.Visible {
			continue
		}
		if el := layerToSVG(l); el != "" {
			elements = append(elements, el)
		}
	}
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)
	b.WriteString(strconv.Itoa(ArtboardWidth))
	b.WriteString(" ")
	b.WriteString(strconv.Itoa(ArtboardHeight))
	b.WriteString("\">\n")
	b.WriteString(strings.Join(elements, "\n"))
	b.WriteString("\n</svg>")
	return b.String()
}

func layerToSVG(l canvas.Layer) string {
	opacity := num(orOne(l.Opacity))

	switch l.Type {
	case canvas.TypeRectangle, canvas.TypeVector:
		p := shapeProps(l)
		return `  <rect x="` + num(l.X) + `" y="` + num(l.Y) +
			`" width="` + num(l.Width) + `" height="` + num(l.Height) +
			`" rx="` + num(p.CornerRadius) +
			`" fill="` + orDefault(p.Fill, defaultFill) +
			`" stroke="` + orDefault(p.Stroke, "none") +
			`" stroke-width="` + num(p.StrokeWidth) +
			`" opacity="` + opacity + `" />`

	case canvas.TypeCircle:
		p := shapeProps(l)
		cx := l.X + l.Width/2
		cy := l.Y + l.Height/2
		r := min(l.Width, l.Height) / 2
		return `  <circle cx="` + num(cx) + `" cy="` + num(cy) +
			`" r="` + num(r) +
			`" fill="` + orDefault(p.Fill, defaultFill) +
			`" stroke="` + orDefault(p.Stroke, "none") +
			`" stroke-width="` + num(p.StrokeWidth) +
			`" opacity="` + opacity + `" />`

	case canvas.TypeText:
		p := canvas.TextProperties{}
		if l.Properties.Text != nil {
			p = *l.Properties.Text
		}
		size := p.FontSize
		if size == 0 {
			size = defaultFontSize
		}
		return `  <text x="` + num(l.X) + `" y="` + num(l.Y+size) +
			`" font-family="` + orDefault(p.FontFamily, defaultFont) +
			`" font-size="` + num(size) +
			`" font-weight="` + orDefault(p.FontWeight, "normal") +
			`" fill="` + orDefault(p.Fill, defaultFill) +
			`" opacity="` + opacity + `">` + escapeXML(p.Text) + `</text>`

	default:
		// Groups paint nothing themselves.
		return ""
	}
}

// CSS renders the document as a stylesheet of absolutely positioned
// rule blocks, one per visible layer.
func CSS(c canvas.CanvasData) string {
	var rules []string
	for _, l := range c.Layers {
		if !l.Visible {
			continue
		}
		rules = append(rules, layerToCSS(l))
	}
	var b strings.Builder
	b.WriteString("/* Generated CSS from DesignStudio */\n")
	b.WriteString(".designstudio-container {\n")
	b.WriteString("  position: relative;\n")
	b.WriteString("  width: " + strconv.Itoa(ArtboardWidth) + "px;\n")
	b.WriteString("  height: " + strconv.Itoa(ArtboardHeight) + "px;\n")
	b.WriteString("}\n\n")
	b.WriteString(strings.Join(rules, "\n\n"))
	return b.String()
}

func layerToCSS(l canvas.Layer) string {
	className := "designstudio-" + string(l.Type) + "-" + sanitizeClass(l.ID)

	var b strings.Builder
	b.WriteString("." + className + " {\n")
	b.WriteString("  position: absolute;\n")
	b.WriteString("  left: " + num(l.X) + "px;\n")
	b.WriteString("  top: " + num(l.Y) + "px;\n")
	b.WriteString("  width: " + num(l.Width) + "px;\n")
	b.WriteString("  height: " + num(l.Height) + "px;\n")
	b.WriteString("  opacity: " + num(orOne(l.Opacity)) + ";")

	switch l.Type {
	case canvas.TypeRectangle, canvas.TypeVector:
		p := shapeProps(l)
		b.WriteString("\n  background-color: " + orDefault(p.Fill, "transparent") + ";")
		b.WriteString("\n  border: " + num(p.StrokeWidth) + "px solid " + orDefault(p.Stroke, "transparent") + ";")
		b.WriteString("\n  border-radius: " + num(p.CornerRadius) + "px;")

	case canvas.TypeCircle:
		p := shapeProps(l)
		b.WriteString("\n  background-color: " + orDefault(p.Fill, "transparent") + ";")
		b.WriteString("\n  border: " + num(p.StrokeWidth) + "px solid " + orDefault(p.Stroke, "transparent") + ";")
		b.WriteString("\n  border-radius: 50%;")

	case canvas.TypeText:
		p := canvas.TextProperties{}
		if l.Properties.Text != nil {
			p = *l.Properties.Text
		}
		size := p.FontSize
		if size == 0 {
			size = defaultFontSize
		}
		b.WriteString("\n  color: " + orDefault(p.Fill, defaultTextFill) + ";")
		b.WriteString("\n  font-size: " + num(size) + "px;")
		b.WriteString("\n  font-family: " + orDefault(p.FontFamily, defaultFont) + ";")
		b.WriteString("\n  font-weight: " + orDefault(p.FontWeight, "normal") + ";")
		b.WriteString("\n  text-align: " + orDefault(p.TextAlign, "left") + ";")
		b.WriteString("\n  line-height: 1.2;")
	}

	b.WriteString("\n}")
	return b.String()
}

func shapeProps(l canvas.Layer) canvas.ShapeProperties {
	if l.Properties.Shape != nil {
		return *l.Properties.Shape
	}
	return canvas.ShapeProperties{}
}

// num formats a coordinate the way the frontend serializes numbers: no
// exponent, no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// orOne mirrors the reference renderer's `opacity || 1` coercion.
func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// sanitizeClass strips everything but ASCII letters and digits so a
// layer id always yields a usable CSS class name.
func sanitizeClass(id string) string {
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
