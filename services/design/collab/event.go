// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package collab implements the real-time collaboration protocol:
// per-document rooms of websocket connections with sender-excluded
// event fan-out and cursor presence.
//
// Structural events are broadcast verbatim; the hub never interprets or
// applies them. The contract for receivers is reconciliation-by-reload:
// any structural event is a signal to re-fetch the authoritative
// document from the store and replace local state wholesale.
package collab

import "encoding/json"

// EventType tags a collaboration event.
type EventType string

const (
	EventCursor          EventType = "cursor"
	EventLayerAdd        EventType = "layer_add"
	EventLayerUpdate     EventType = "layer_update"
	EventLayerDelete     EventType = "layer_delete"
	EventGroup           EventType = "group"
	EventUngroup         EventType = "ungroup"
	EventSelectionChange EventType = "selection_change"
)

// DefaultCursorColor is assigned when a cursor event carries no color.
const DefaultCursorColor = "#007AFF"

// Event is the wire message exchanged on a collaboration stream. The
// server stamps UserID, UserName and Timestamp on every inbound event
// before fan-out; whatever the client put there is overwritten.
type Event struct {
	Type      EventType       `json:"type"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// CursorPosition is a user's last known pointer position, replayed to
// newly joining clients.
type CursorPosition struct {
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
}

// cursorData is the payload of an inbound cursor event.
type cursorData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Left  bool    `json:"left"`
}

// leftMarker is the payload of the synthetic departure event.
type leftMarker struct {
	Left bool `json:"left"`
}
