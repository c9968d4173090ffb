// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package canvas

import "errors"

var (
	// ErrNotFound is returned when a referenced layer id does not
	// exist in the document.
	ErrNotFound = errors.New("canvas: layer not found")

	// ErrInvalidStructure is returned when a mutation would violate
	// a tree invariant and is rejected before anything changes.
	ErrInvalidStructure = errors.New("canvas: invalid structure")

	// ErrCorruptTree is returned when an invariant is found already
	// broken by an operation that assumes it. This is defensive: it
	// indicates an earlier bug, not a bad request, and callers should
	// surface it loudly instead of swallowing it.
	ErrCorruptTree = errors.New("canvas: corrupt layer tree")
)
