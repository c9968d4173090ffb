// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides request and response types for the design
// service's HTTP surface.
package datatypes

import (
	"github.com/go-playground/validator/v10"
)

const (
	// MaxPromptBytes caps AI prompt inputs. Checked as byte length,
	// not rune count, to bound memory on hostile payloads.
	MaxPromptBytes = 8 * 1024

	// MaxCommentBytes caps comment content.
	MaxCommentBytes = 4 * 1024

	// MaxNameLength caps project, design file, and author names.
	MaxNameLength = 200
)

// validate is the shared validator instance for request types.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("promptbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPromptBytes
	})
	_ = validate.RegisterValidation("commentbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxCommentBytes
	})
}
