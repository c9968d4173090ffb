// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package canvas

import "github.com/designstudio/designstudio/services/design/geometry"

// HitTest returns the topmost, innermost layer whose shape contains the
// given document-frame point.
//
// Root layers are walked in reverse paint order. Descending into a
// group translates the point into the group's local frame before
// testing its members. An invisible layer excludes its whole subtree; a
// locked layer is never returned itself but its members stay testable.
// Groups have no shape of their own and are never returned directly.
// Circles use elliptical containment; every other shape uses its frame
// rectangle. A rotated layer is tested by un-rotating the point about
// the layer's center.
func (d *Document) HitTest(p geometry.Point) (Layer, bool) {
	roots := d.RootLayers()
	for i := len(roots) - 1; i >= 0; i-- {
		if hit, ok := d.hitLayer(roots[i].ID, p); ok {
			return hit, true
		}
	}
	return Layer{}, false
}

// hitLayer tests one layer against a point expressed in the layer's
// parent frame.
func (d *Document) hitLayer(id string, p geometry.Point) (Layer, bool) {
	l, ok := d.layers[id]
	if !ok {
		return Layer{}, false
	}
	if !l.Visible {
		return Layer{}, false
	}

	if l.Type == TypeGroup {
		local := p.Sub(l.Origin())
		children := l.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if hit, ok := d.hitLayer(children[i], local); ok {
				return hit, true
			}
		}
		return Layer{}, false
	}

	if l.Locked {
		return Layer{}, false
	}
	rect := l.Rect()
	q := p
	if l.Rotation != 0 {
		q = geometry.RotateAround(p, rect.Center(), -l.Rotation)
	}
	var contained bool
	if l.Type == TypeCircle {
		contained = rect.ContainsEllipse(q)
	} else {
		contained = rect.Contains(q)
	}
	if !contained {
		return Layer{}, false
	}
	return l.clone(), true
}
