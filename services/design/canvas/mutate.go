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

	"github.com/google/uuid"
)

// DuplicateOffset is the position delta applied to a duplicated layer.
const DuplicateOffset = 10

// NewLayerID returns a fresh unique layer id.
func NewLayerID() string { return "layer_" + uuid.NewString() }

// NewGroupID returns a fresh unique group layer id.
func NewGroupID() string { return "group_" + uuid.NewString() }

// Every mutation below validates its preconditions in full before
// touching the document, so a failed call leaves the tree exactly as it
// was.

// AddLayer inserts a new layer at the end of the paint order (topmost)
// and selects it. The id on spec is ignored; a fresh one is assigned
// and returned. A parented spec (AI-generated layers arrive
// pre-parented) must reference an existing group.
func (d *Document) AddLayer(spec Layer) (Layer, error) {
	if !spec.Type.valid() {
		return Layer{}, fmt.Errorf("%w: unknown layer type %q", ErrInvalidStructure, spec.Type)
	}
	if spec.Width < 0 || spec.Height < 0 {
		return Layer{}, fmt.Errorf("%w: negative extents", ErrInvalidStructure)
	}
	if spec.Type == TypeGroup && spec.Properties.Group == nil {
		spec.Properties = Properties{Group: &GroupProperties{}}
	}
	var parent *Layer
	if spec.ParentID != "" {
		p, ok := d.layers[spec.ParentID]
		if !ok {
			return Layer{}, fmt.Errorf("%w: parent %q", ErrNotFound, spec.ParentID)
		}
		if p.Type != TypeGroup {
			return Layer{}, fmt.Errorf("%w: parent %q is not a group", ErrInvalidStructure, spec.ParentID)
		}
		parent = p
	}

	l := spec.clone()
	if spec.Type == TypeGroup {
		l.ID = NewGroupID()
	} else {
		l.ID = NewLayerID()
	}
	d.layers[l.ID] = &l
	d.order = append(d.order, l.ID)
	if parent != nil {
		parent.Properties.Group.Children = append(parent.Properties.Group.Children, l.ID)
	}
	d.selection = l.ID
	return l.clone(), nil
}

// LayerUpdate is a partial field change for UpdateLayer. Nil fields are
// left untouched.
type LayerUpdate struct {
	Name     *string           `json:"name,omitempty"`
	X        *float64          `json:"x,omitempty"`
	Y        *float64          `json:"y,omitempty"`
	Width    *float64          `json:"width,omitempty"`
	Height   *float64          `json:"height,omitempty"`
	Visible  *bool             `json:"visible,omitempty"`
	Locked   *bool             `json:"locked,omitempty"`
	Opacity  *float64          `json:"opacity,omitempty"`
	Rotation *float64          `json:"rotation,omitempty"`
	Props    *PropertiesUpdate `json:"properties,omitempty"`
}

// PropertiesUpdate is a shallow merge into the layer's properties bag:
// set keys overwrite, unset keys stay. Children is deliberately absent;
// group membership only changes through the structural operations.
type PropertiesUpdate struct {
	Fill          *string  `json:"fill,omitempty"`
	Stroke        *string  `json:"stroke,omitempty"`
	StrokeWidth   *float64 `json:"strokeWidth,omitempty"`
	CornerRadius  *float64 `json:"cornerRadius,omitempty"`
	Text          *string  `json:"text,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontWeight    *string  `json:"fontWeight,omitempty"`
	TextAlign     *string  `json:"textAlign,omitempty"`
	VerticalAlign *string  `json:"verticalAlign,omitempty"`
	WordWrap      *bool    `json:"wordWrap,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	Padding       *float64 `json:"padding,omitempty"`
	Overflow      *string  `json:"overflow,omitempty"`
}

// UpdateLayer merges partial changes into an existing layer. Locked
// layers accept updates: locking only blocks interactive move/resize in
// the editor, not programmatic edits. Ancestor group bounds are not
// recomputed here; a group's frame is "as of last structural change"
// and only Group, Ungroup and an explicit resize touch it.
func (d *Document) UpdateLayer(id string, u LayerUpdate) (Layer, error) {
	l, ok := d.layers[id]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if (u.Width != nil && *u.Width < 0) || (u.Height != nil && *u.Height < 0) {
		return Layer{}, fmt.Errorf("%w: negative extents", ErrInvalidStructure)
	}

	if u.Name != nil {
		l.Name = *u.Name
	}
	if u.X != nil {
		l.X = *u.X
	}
	if u.Y != nil {
		l.Y = *u.Y
	}
	if u.Width != nil {
		l.Width = *u.Width
	}
	if u.Height != nil {
		l.Height = *u.Height
	}
	if u.Visible != nil {
		l.Visible = *u.Visible
	}
	if u.Locked != nil {
		l.Locked = *u.Locked
	}
	if u.Opacity != nil {
		l.Opacity = clamp01(*u.Opacity)
	}
	if u.Rotation != nil {
		l.Rotation = *u.Rotation
	}
	if u.Props != nil {
		mergeProperties(l, *u.Props)
	}
	return l.clone(), nil
}

func mergeProperties(l *Layer, p PropertiesUpdate) {
	switch {
	case l.Properties.Shape != nil:
		s := l.Properties.Shape
		if p.Fill != nil {
			s.Fill = *p.Fill
		}
		if p.Stroke != nil {
			s.Stroke = *p.Stroke
		}
		if p.StrokeWidth != nil {
			s.StrokeWidth = *p.StrokeWidth
		}
		if p.CornerRadius != nil {
			s.CornerRadius = *p.CornerRadius
		}
	case l.Properties.Text != nil:
		t := l.Properties.Text
		if p.Text != nil {
			t.Text = *p.Text
		}
		if p.FontSize != nil {
			t.FontSize = *p.FontSize
		}
		if p.FontFamily != nil {
			t.FontFamily = *p.FontFamily
		}
		if p.FontWeight != nil {
			t.FontWeight = *p.FontWeight
		}
		if p.TextAlign != nil {
			t.TextAlign = *p.TextAlign
		}
		if p.VerticalAlign != nil {
			t.VerticalAlign = *p.VerticalAlign
		}
		if p.WordWrap != nil {
			t.WordWrap = *p.WordWrap
		}
		if p.LineHeight != nil {
			t.LineHeight = *p.LineHeight
		}
		if p.Padding != nil {
			t.Padding = *p.Padding
		}
		if p.Fill != nil {
			t.Fill = *p.Fill
		}
		if p.Overflow != nil {
			t.Overflow = *p.Overflow
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DeleteLayer removes a layer and, for groups, its full descendant set.
// Every remaining group's children list is stripped of the removed ids,
// so no dangling references survive. Returns the removed ids. Clears
// the selection if it pointed into the removed set.
func (d *Document) DeleteLayer(id string) ([]string, error) {
	if _, ok := d.layers[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	removed := append([]string{id}, d.descendants(id)...)
	gone := make(map[string]bool, len(removed))
	for _, rid := range removed {
		gone[rid] = true
	}

	for _, rid := range removed {
		delete(d.layers, rid)
	}
	kept := d.order[:0]
	for _, oid := range d.order {
		if !gone[oid] {
			kept = append(kept, oid)
		}
	}
	d.order = kept

	for _, l := range d.layers {
		if g := l.Properties.Group; g != nil {
			filtered := g.Children[:0]
			for _, cid := range g.Children {
				if !gone[cid] {
					filtered = append(filtered, cid)
				}
			}
			g.Children = filtered
		}
	}

	if gone[d.selection] {
		d.selection = ""
	}
	return removed, nil
}

// Group collects at least two currently unparented layers into a fresh
// group. The group's frame is the bounding box of the members in the
// shared root frame; member positions are rewritten relative to it and
// kept in their existing paint order. The new group is appended to the
// document sequence and becomes the selection.
func (d *Document) Group(ids []string) (Layer, error) {
	if len(ids) < 2 {
		return Layer{}, fmt.Errorf("%w: grouping needs at least 2 layers, got %d", ErrInvalidStructure, len(ids))
	}
	members := make(map[string]bool, len(ids))
	for _, id := range ids {
		l, ok := d.layers[id]
		if !ok {
			return Layer{}, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		if members[id] {
			return Layer{}, fmt.Errorf("%w: duplicate id %q in group selection", ErrInvalidStructure, id)
		}
		if l.ParentID != "" {
			return Layer{}, fmt.Errorf("%w: layer %q is already in a group", ErrInvalidStructure, id)
		}
		members[id] = true
	}

	// Members keep their relative paint order, not selection order.
	ordered := make([]string, 0, len(ids))
	for _, oid := range d.order {
		if members[oid] {
			ordered = append(ordered, oid)
		}
	}

	rects := make([]geometry.Rect, 0, len(ordered))
	for _, id := range ordered {
		rects = append(rects, d.layers[id].Rect())
	}
	box, err := geometry.BoundingBox(rects)
	if err != nil {
		return Layer{}, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}

	g := Layer{
		ID:      NewGroupID(),
		Type:    TypeGroup,
		Name:    "Group",
		X:       box.X,
		Y:       box.Y,
		Width:   box.Width,
		Height:  box.Height,
		Visible: true,
		Opacity: 1,
		Properties: Properties{
			Group: &GroupProperties{Children: ordered},
		},
	}
	for _, id := range ordered {
		child := d.layers[id]
		child.X -= box.X
		child.Y -= box.Y
		child.ParentID = g.ID
	}
	d.layers[g.ID] = &g
	d.order = append(d.order, g.ID)
	d.selection = g.ID
	return g.clone(), nil
}

// Ungroup dissolves a group, promoting its members to the group's own
// parent. Member positions are recomposed by one level of frame offset
// (child + group origin) so absolute positions are preserved; for a
// nested group the members are re-parented to the grandparent, never
// orphaned to root. The selection clears.
func (d *Document) Ungroup(id string) ([]Layer, error) {
	g, ok := d.layers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if g.Type != TypeGroup {
		return nil, fmt.Errorf("%w: layer %q is not a group", ErrInvalidStructure, id)
	}
	childIDs := g.Children()
	for _, cid := range childIDs {
		if _, ok := d.layers[cid]; !ok {
			return nil, fmt.Errorf("%w: group %q references missing child %q", ErrCorruptTree, id, cid)
		}
	}
	var grand *Layer
	if g.ParentID != "" {
		p, ok := d.layers[g.ParentID]
		if !ok || p.Type != TypeGroup {
			return nil, fmt.Errorf("%w: group %q has invalid parent %q", ErrCorruptTree, id, g.ParentID)
		}
		grand = p
	}

	freed := make([]Layer, 0, len(childIDs))
	for _, cid := range childIDs {
		child := d.layers[cid]
		child.X += g.X
		child.Y += g.Y
		child.ParentID = g.ParentID
		freed = append(freed, child.clone())
	}
	if grand != nil {
		// Splice the members into the grandparent where the group sat.
		gc := grand.Properties.Group.Children
		spliced := make([]string, 0, len(gc)+len(childIDs)-1)
		for _, cid := range gc {
			if cid == id {
				spliced = append(spliced, childIDs...)
			} else {
				spliced = append(spliced, cid)
			}
		}
		grand.Properties.Group.Children = spliced
	}

	delete(d.layers, id)
	d.order = remove(d.order, id)
	d.selection = ""
	return freed, nil
}

// Duplicate deep-copies a layer and, for groups, its whole subtree.
// Every copy gets a fresh id and internal parent/children references
// are remapped consistently. The top copy is offset by DuplicateOffset
// and appended as a sibling of the original (same parent, topmost in
// paint order). The copy becomes the selection.
func (d *Document) Duplicate(id string) (Layer, error) {
	src, ok := d.layers[id]
	if !ok {
		return Layer{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	subtree := append([]string{id}, d.descendants(id)...)
	idMap := make(map[string]string, len(subtree))
	for _, sid := range subtree {
		if d.layers[sid].Type == TypeGroup {
			idMap[sid] = NewGroupID()
		} else {
			idMap[sid] = NewLayerID()
		}
	}

	// Copies preserve the subtree's relative paint order.
	ordered := make([]string, 0, len(subtree))
	inSubtree := make(map[string]bool, len(subtree))
	for _, sid := range subtree {
		inSubtree[sid] = true
	}
	for _, oid := range d.order {
		if inSubtree[oid] {
			ordered = append(ordered, oid)
		}
	}

	for _, sid := range ordered {
		cp := d.layers[sid].clone()
		cp.ID = idMap[sid]
		if mapped, ok := idMap[cp.ParentID]; ok {
			cp.ParentID = mapped
		}
		if g := cp.Properties.Group; g != nil {
			for i, cid := range g.Children {
				g.Children[i] = idMap[cid]
			}
		}
		if sid == id {
			cp.Name = cp.Name + " Copy"
			cp.X += DuplicateOffset
			cp.Y += DuplicateOffset
		}
		d.layers[cp.ID] = &cp
		d.order = append(d.order, cp.ID)
	}

	topID := idMap[id]
	if src.ParentID != "" {
		parent := d.layers[src.ParentID]
		parent.Properties.Group.Children = append(parent.Properties.Group.Children, topID)
	}
	d.selection = topID
	return d.layers[topID].clone(), nil
}

// EnsureSingleRoot wraps the document's root layers in one synthesized
// group when more than one exists, so externally generated content
// always arrives as a single movable unit. Returns the wrapping group
// and true when a wrap happened.
func (d *Document) EnsureSingleRoot(name string) (Layer, bool, error) {
	roots := d.RootLayers()
	if len(roots) < 2 {
		return Layer{}, false, nil
	}
	ids := make([]string, len(roots))
	for i, r := range roots {
		ids[i] = r.ID
	}
	g, err := d.Group(ids)
	if err != nil {
		return Layer{}, false, err
	}
	if name != "" {
		gl := d.layers[g.ID]
		gl.Name = name
		g.Name = name
	}
	return g, true, nil
}
