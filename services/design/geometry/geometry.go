// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package geometry provides pure geometric primitives for the layer tree.
//
// All functions here are side-effect free and operate on plain value
// types. Coordinate frames are a concern of the canvas package; this
// package only knows about points and axis-aligned rectangles.
package geometry

import (
	"errors"
	"math"
)

// ErrEmptyBounds is returned when a bounding box is requested for zero
// rectangles. Callers must guard against grouping an empty selection.
var ErrEmptyBounds = errors.New("geometry: bounding box of empty set is undefined")

// Point is a position in some coordinate frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by the negation of q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle with non-negative extents.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r, edges inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsEllipse reports whether p lies inside the ellipse inscribed
// in r. Degenerate rectangles (zero width or height) contain nothing.
func (r Rect) ContainsEllipse(p Point) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	c := r.Center()
	rx := r.Width / 2
	ry := r.Height / 2
	dx := (p.X - c.X) / rx
	dy := (p.Y - c.Y) / ry
	return dx*dx+dy*dy <= 1
}

// BoundingBox returns the smallest axis-aligned rectangle covering all
// given rectangles. Returns ErrEmptyBounds for an empty input.
func BoundingBox(rects []Rect) (Rect, error) {
	if len(rects) == 0 {
		return Rect{}, ErrEmptyBounds
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.Width)
		maxY = math.Max(maxY, r.Y+r.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil
}

// RotateAround rotates p by the given angle in degrees, counter
// clockwise about center.
func RotateAround(p, center Point, degrees float64) Point {
	if degrees == 0 {
		return p
	}
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}
