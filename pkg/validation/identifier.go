// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for untrusted inputs.
//
// This package contains validators for identifiers and display names that
// flow into broadcast events, CSS class names, and SVG attributes. Using
// these validators keeps malformed or hostile values out of generated
// markup and out of the collaboration stream.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// layerIDPattern matches valid layer identifiers.
// Allows: letters, digits, underscores, hyphens
// Max length: 64 characters
var layerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_\-]{0,63}$`)

// MaxDisplayNameLength caps collaborator display names.
const MaxDisplayNameLength = 64

// ValidateLayerID validates a layer identifier.
//
// Valid identifiers:
//   - 1-64 characters
//   - Letters A-Z, a-z
//   - Digits 0-9
//   - Underscores (_) and hyphens (-)
//
// Layer identifiers end up in CSS class names and SVG attributes,
// so anything outside this set is rejected rather than escaped.
//
// Returns an error if the identifier is invalid.
//
// Example:
//
//	if err := validation.ValidateLayerID(id); err != nil {
//	    id = generatedID
//	}
func ValidateLayerID(id string) error {
	if id == "" {
		return fmt.Errorf("layer id cannot be empty")
	}

	if !layerIDPattern.MatchString(id) {
		return fmt.Errorf("invalid layer id: %q (must be 1-64 alphanumeric chars, underscores, or hyphens)", id)
	}

	return nil
}

// SanitizeDisplayName normalizes a collaborator display name.
//
// Control characters are stripped, surrounding whitespace is trimmed,
// and the result is truncated to MaxDisplayNameLength runes. An empty
// result falls back to "Anonymous".
//
// Display names are echoed to every peer in a collaboration room, so
// they are sanitized rather than rejected.
func SanitizeDisplayName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > MaxDisplayNameLength {
		cleaned = string(runes[:MaxDisplayNameLength])
	}

	if cleaned == "" {
		return "Anonymous"
	}
	return cleaned
}
