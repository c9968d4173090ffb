// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package canvas

import (
	"fmt"

	"github.com/designstudio/designstudio/services/design/geometry"
)

// Document is the authoritative in-memory form of one design file's
// layer tree: an id-keyed arena plus the overall paint order. It is not
// safe for concurrent use; per the collaboration model each client owns
// a single-writer copy and reconciles by reloading.
type Document struct {
	order     []string
	layers    map[string]*Layer
	viewport  Viewport
	selection string
}

// NewDocument returns an empty document with a default viewport.
func NewDocument() *Document {
	return &Document{
		layers:   make(map[string]*Layer),
		viewport: Viewport{Zoom: 1},
	}
}

// FromCanvas builds a document from its stored form and verifies the
// tree invariants. Duplicate ids surface as ErrCorruptTree.
func FromCanvas(c CanvasData) (*Document, error) {
	d := &Document{
		order:    make([]string, 0, len(c.Layers)),
		layers:   make(map[string]*Layer, len(c.Layers)),
		viewport: c.Viewport,
	}
	if d.viewport.Zoom == 0 {
		d.viewport.Zoom = 1
	}
	for _, l := range c.Layers {
		if l.ID == "" {
			return nil, fmt.Errorf("%w: layer with empty id", ErrCorruptTree)
		}
		if _, dup := d.layers[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate layer id %q", ErrCorruptTree, l.ID)
		}
		cp := l.clone()
		d.layers[l.ID] = &cp
		d.order = append(d.order, l.ID)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ToCanvas renders the document back to its stored form, layers in
// paint order.
func (d *Document) ToCanvas() CanvasData {
	out := CanvasData{
		Layers:   make([]Layer, 0, len(d.order)),
		Viewport: d.viewport,
	}
	for _, id := range d.order {
		out.Layers = append(out.Layers, d.layers[id].clone())
	}
	return out
}

// Len returns the number of layers in the document.
func (d *Document) Len() int { return len(d.order) }

// Viewport returns the current view state.
func (d *Document) Viewport() Viewport { return d.viewport }

// SetViewport replaces the view state. Pure view concern, never part of
// stored geometry invariants.
func (d *Document) SetViewport(v Viewport) { d.viewport = v }

// Selection returns the currently selected layer id, or empty.
func (d *Document) Selection() string { return d.selection }

// Select sets the selection. Selecting an unknown id fails with
// ErrNotFound; the empty id clears the selection.
func (d *Document) Select(id string) error {
	if id != "" {
		if _, ok := d.layers[id]; !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
	}
	d.selection = id
	return nil
}

// Layer returns a copy of the layer with the given id.
func (d *Document) Layer(id string) (Layer, error) {
	l, ok := d.layers[id]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return l.clone(), nil
}

// Children resolves a group's member ids to layers, in the group's
// paint order. Non-group layers yield an empty slice; only an unknown
// id is an error.
func (d *Document) Children(id string) ([]Layer, error) {
	l, ok := d.layers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	ids := l.Children()
	out := make([]Layer, 0, len(ids))
	for _, cid := range ids {
		c, ok := d.layers[cid]
		if !ok {
			return nil, fmt.Errorf("%w: group %q references missing child %q", ErrCorruptTree, id, cid)
		}
		out = append(out, c.clone())
	}
	return out, nil
}

// RootLayers returns all layers without a parent, in document insertion
// order.
func (d *Document) RootLayers() []Layer {
	var out []Layer
	for _, id := range d.order {
		if l := d.layers[id]; l.ParentID == "" {
			out = append(out, l.clone())
		}
	}
	return out
}

// AbsolutePosition walks parent links from the layer to its root,
// summing relative offsets into a document-frame position. A cycle in
// the parent chain is reported as ErrCorruptTree rather than looping.
func (d *Document) AbsolutePosition(id string) (geometry.Point, error) {
	l, ok := d.layers[id]
	if !ok {
		return geometry.Point{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	pos := l.Origin()
	seen := map[string]bool{id: true}
	for cur := l; cur.ParentID != ""; {
		if seen[cur.ParentID] {
			return geometry.Point{}, fmt.Errorf("%w: parent cycle through %q", ErrCorruptTree, cur.ParentID)
		}
		seen[cur.ParentID] = true
		parent, ok := d.layers[cur.ParentID]
		if !ok {
			return geometry.Point{}, fmt.Errorf("%w: dangling parent %q", ErrCorruptTree, cur.ParentID)
		}
		pos = pos.Add(parent.Origin())
		cur = parent
	}
	return pos, nil
}

// Flatten returns every layer of the forest in pre-order: roots in
// document order, each group immediately followed by its members,
// recursively.
func (d *Document) Flatten() []Layer {
	out := make([]Layer, 0, len(d.order))
	seen := make(map[string]bool, len(d.order))
	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		l := d.layers[id]
		out = append(out, l.clone())
		for _, cid := range l.Children() {
			if _, ok := d.layers[cid]; ok {
				walk(cid)
			}
		}
	}
	for _, id := range d.order {
		if d.layers[id].ParentID == "" {
			walk(id)
		}
	}
	return out
}

// Validate checks the structural invariants: every parent reference
// resolves to a group whose children list agrees, every children entry
// points back, extents are non-negative, and the parent graph is a
// forest (acyclic).
func (d *Document) Validate() error {
	for _, id := range d.order {
		l := d.layers[id]
		if l.Width < 0 || l.Height < 0 {
			return fmt.Errorf("%w: layer %q has negative extents", ErrCorruptTree, id)
		}
		if l.Type == TypeGroup && l.Properties.Group == nil {
			return fmt.Errorf("%w: group %q has no children list", ErrCorruptTree, id)
		}
		if l.ParentID != "" {
			parent, ok := d.layers[l.ParentID]
			if !ok {
				return fmt.Errorf("%w: layer %q references missing parent %q", ErrCorruptTree, id, l.ParentID)
			}
			if parent.Type != TypeGroup {
				return fmt.Errorf("%w: layer %q has non-group parent %q", ErrCorruptTree, id, l.ParentID)
			}
			if !contains(parent.Children(), id) {
				return fmt.Errorf("%w: parent %q does not list child %q", ErrCorruptTree, l.ParentID, id)
			}
		}
		for _, cid := range l.Children() {
			child, ok := d.layers[cid]
			if !ok {
				return fmt.Errorf("%w: group %q references missing child %q", ErrCorruptTree, id, cid)
			}
			if child.ParentID != id {
				return fmt.Errorf("%w: child %q does not point back to group %q", ErrCorruptTree, cid, id)
			}
		}
	}
	// Acyclic parent chains.
	for _, id := range d.order {
		if _, err := d.AbsolutePosition(id); err != nil {
			return err
		}
	}
	return nil
}

// descendants collects the full descendant id set of a layer,
// transitively through nested groups. The visited set makes the walk
// terminate even on a corrupt cyclic children graph.
func (d *Document) descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	var walk func(string)
	walk = func(cur string) {
		l, ok := d.layers[cur]
		if !ok {
			return
		}
		for _, cid := range l.Children() {
			if seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, cid)
			walk(cid)
		}
	}
	walk(id)
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
