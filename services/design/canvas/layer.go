// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package canvas implements the layer tree data model of a design
// document and the structural mutations over it.
//
// A document is an arena: a flat id-keyed collection of layers in paint
// order, where the group hierarchy is expressed through plain id
// back-references (ParentID on children, Children on groups), never
// live pointers. Child coordinates are always relative to the nearest
// containing group; absolute positions are computed on demand.
package canvas

import (
	"encoding/json"
	"fmt"

	"github.com/designstudio/designstudio/services/design/geometry"
)

// LayerType is the closed set of layer kinds. Geometry, hit-testing and
// export behavior all branch on it.
type LayerType string

const (
	TypeRectangle LayerType = "rectangle"
	TypeCircle    LayerType = "circle"
	TypeText      LayerType = "text"
	TypeVector    LayerType = "vector"
	TypeGroup     LayerType = "group"
)

// valid reports whether t is a known layer type.
func (t LayerType) valid() bool {
	switch t {
	case TypeRectangle, TypeCircle, TypeText, TypeVector, TypeGroup:
		return true
	}
	return false
}

// ShapeProperties is the variant payload for rectangle, circle and
// vector layers.
type ShapeProperties struct {
	Fill         string  `json:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"strokeWidth,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// TextProperties is the variant payload for text container layers.
type TextProperties struct {
	Text          string  `json:"text"`
	FontSize      float64 `json:"fontSize,omitempty"`
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontWeight    string  `json:"fontWeight,omitempty"`
	TextAlign     string  `json:"textAlign,omitempty"`
	VerticalAlign string  `json:"verticalAlign,omitempty"`
	Fill          string  `json:"fill,omitempty"`
	WordWrap      bool    `json:"wordWrap,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	Padding       float64 `json:"padding,omitempty"`
	Overflow      string  `json:"overflow,omitempty"`
}

// GroupProperties is the variant payload for group layers. Children is
// the ordered list of member layer ids, back to front.
type GroupProperties struct {
	Children []string `json:"children"`
}

// Properties is the per-type variant payload of a layer. Exactly one
// arm is set for a well-formed layer; which one is dictated by the
// layer's Type.
type Properties struct {
	Shape *ShapeProperties
	Text  *TextProperties
	Group *GroupProperties
}

// Viewport is pan/zoom view state. It never affects stored geometry.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Layer is a single visual node of a document.
type Layer struct {
	ID       string
	Type     LayerType
	Name     string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Visible  bool
	Locked   bool
	Opacity  float64
	Rotation float64
	// ParentID references the containing group, or is empty for a
	// root layer. It must agree with the parent's Children list.
	ParentID   string
	Properties Properties
}

// Rect returns the layer's frame rectangle in its parent's coordinate
// frame.
func (l Layer) Rect() geometry.Rect {
	return geometry.Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// Origin returns the layer's position in its parent's frame.
func (l Layer) Origin() geometry.Point {
	return geometry.Point{X: l.X, Y: l.Y}
}

// Children returns the member ids of a group layer, or nil for any
// other type.
func (l Layer) Children() []string {
	if l.Properties.Group == nil {
		return nil
	}
	return l.Properties.Group.Children
}

// CanvasData is the wire and storage form of a document: every layer in
// paint order (roots and group members interleaved in insertion order)
// plus the viewport.
type CanvasData struct {
	Layers   []Layer  `json:"layers"`
	Viewport Viewport `json:"viewport"`
}

// layerEnvelope is the flat JSON form shared by all layer types. The
// properties bag is decoded in a second pass once the type is known.
type layerEnvelope struct {
	ID       string          `json:"id"`
	Type     LayerType       `json:"type"`
	Name     string          `json:"name"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Visible  *bool           `json:"visible,omitempty"`
	Locked   bool            `json:"locked"`
	Opacity  *float64        `json:"opacity,omitempty"`
	Rotation float64         `json:"rotation,omitempty"`
	ParentID string          `json:"parentId,omitempty"`
	Props    json.RawMessage `json:"properties,omitempty"`
}

// MarshalJSON flattens the typed properties variant into the properties
// bag the frontend and the persistence layer exchange.
func (l Layer) MarshalJSON() ([]byte, error) {
	visible := l.Visible
	opacity := l.Opacity
	env := layerEnvelope{
		ID:       l.ID,
		Type:     l.Type,
		Name:     l.Name,
		X:        l.X,
		Y:        l.Y,
		Width:    l.Width,
		Height:   l.Height,
		Visible:  &visible,
		Locked:   l.Locked,
		Opacity:  &opacity,
		Rotation: l.Rotation,
		ParentID: l.ParentID,
	}

	var props any = struct{}{}
	switch {
	case l.Properties.Group != nil:
		props = l.Properties.Group
	case l.Properties.Text != nil:
		props = l.Properties.Text
	case l.Properties.Shape != nil:
		props = l.Properties.Shape
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}
	env.Props = raw
	return json.Marshal(env)
}

// UnmarshalJSON decodes the flat layer form, selecting the properties
// variant by the layer type. Missing visible defaults to true and
// missing opacity to 1, matching what the original documents omit. The
// legacy "container" tag is accepted as an alias for text.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var env layerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.Type == "container" {
		env.Type = TypeText
	}
	if !env.Type.valid() {
		return fmt.Errorf("layer %q: unknown type %q", env.ID, env.Type)
	}

	l.ID = env.ID
	l.Type = env.Type
	l.Name = env.Name
	l.X = env.X
	l.Y = env.Y
	l.Width = env.Width
	l.Height = env.Height
	l.Locked = env.Locked
	l.Rotation = env.Rotation
	l.ParentID = env.ParentID

	l.Visible = true
	if env.Visible != nil {
		l.Visible = *env.Visible
	}
	l.Opacity = 1
	if env.Opacity != nil {
		l.Opacity = *env.Opacity
	}

	l.Properties = Properties{}
	raw := env.Props
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	switch env.Type {
	case TypeGroup:
		var p GroupProperties
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("layer %q: group properties: %w", env.ID, err)
		}
		l.Properties.Group = &p
	case TypeText:
		var p TextProperties
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("layer %q: text properties: %w", env.ID, err)
		}
		l.Properties.Text = &p
	default:
		var p ShapeProperties
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("layer %q: shape properties: %w", env.ID, err)
		}
		l.Properties.Shape = &p
	}
	return nil
}

// clone returns a deep copy of l. The properties variant is copied so
// the clone shares no mutable state with the original.
func (l Layer) clone() Layer {
	c := l
	switch {
	case l.Properties.Shape != nil:
		p := *l.Properties.Shape
		c.Properties = Properties{Shape: &p}
	case l.Properties.Text != nil:
		p := *l.Properties.Text
		c.Properties = Properties{Text: &p}
	case l.Properties.Group != nil:
		p := GroupProperties{Children: append([]string(nil), l.Properties.Group.Children...)}
		c.Properties = Properties{Group: &p}
	}
	return c
}
