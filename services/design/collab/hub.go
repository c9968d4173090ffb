// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/designstudio/designstudio/services/design/observability"
)

// Hub owns every collaboration room in the process. It is created once
// per server and injected into the websocket handler; there is no
// package-level state. All room and cursor tables are guarded by one
// mutex; contention is per-event and events are small.
//
// The single-instance assumption is deliberate: rooms live in process
// memory and horizontal scaling would need an external pub/sub.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string]*room
	logger  *slog.Logger
	metrics *observability.Metrics
}

// room is one document's connection set and cursor table.
type room struct {
	id      string
	clients map[*Client]bool
	cursors map[string]CursorPosition
}

// NewHub creates an empty hub. logger must not be nil; metrics may be
// nil (unmetered).
func NewHub(logger *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		rooms:   make(map[string]*room),
		logger:  logger,
		metrics: metrics,
	}
}

// roomID scopes rooms to a design file.
func roomID(documentID string) string { return "design_" + documentID }

// Join registers a new connection in the document's room, creating the
// room if absent, and queues the current cursors of every other present
// user so the joiner can render existing collaborators immediately.
// Structural state is not replayed; clients load it from the store.
func (h *Hub) Join(documentID, userID, userName string, conn wsConn) *Client {
	c := &Client{
		hub:      h,
		roomID:   roomID(documentID),
		UserID:   userID,
		UserName: userName,
		conn:     conn,
		send:     make(chan Event, sendBuffer),
	}

	h.mu.Lock()
	r, ok := h.rooms[c.roomID]
	if !ok {
		r = &room{
			id:      c.roomID,
			clients: make(map[*Client]bool),
			cursors: make(map[string]CursorPosition),
		}
		h.rooms[c.roomID] = r
		h.metrics.RoomOpened()
	}
	r.clients[c] = true
	for _, cur := range r.cursors {
		if cur.UserID == userID {
			continue
		}
		data, err := json.Marshal(cur)
		if err != nil {
			continue
		}
		c.send <- Event{
			Type:      EventCursor,
			UserID:    cur.UserID,
			UserName:  cur.UserName,
			Data:      data,
			Timestamp: time.Now().UnixMilli(),
		}
	}
	h.mu.Unlock()

	h.metrics.ConnectionOpened(c.roomID)
	h.logger.Info("collaborator joined",
		"room", c.roomID, "userId", userID, "userName", userName)
	return c
}

// Broadcast stamps an inbound event with the sender's identity and a
// server timestamp, updates the cursor table for cursor events, and
// fans the event out to every other connection in the sender's room.
// A peer that cannot accept the event is pruned from the room; pruning
// never aborts delivery to the remaining peers.
func (h *Hub) Broadcast(sender *Client, evt Event) {
	evt.UserID = sender.UserID
	evt.UserName = sender.UserName
	evt.Timestamp = time.Now().UnixMilli()

	h.mu.Lock()
	r, ok := h.rooms[sender.roomID]
	if !ok || !r.clients[sender] {
		h.mu.Unlock()
		return
	}

	if evt.Type == EventCursor {
		var d cursorData
		if err := json.Unmarshal(evt.Data, &d); err == nil && !d.Left {
			color := d.Color
			if color == "" {
				color = DefaultCursorColor
			}
			r.cursors[sender.UserID] = CursorPosition{
				UserID:   sender.UserID,
				UserName: sender.UserName,
				X:        d.X,
				Y:        d.Y,
				Color:    color,
			}
		}
	}

	h.deliverLocked(r, sender, evt)
	h.mu.Unlock()

	h.metrics.RecordBroadcast(string(evt.Type))
}

// deliverLocked fans evt out to every client in r except the sender.
// Callers must hold h.mu. A peer whose outbound queue is closed or full
// is treated as failed and removed; a full queue means the write pump
// is wedged and dropping the peer beats stalling the room.
func (h *Hub) deliverLocked(r *room, sender *Client, evt Event) {
	for peer := range r.clients {
		if peer == sender {
			continue
		}
		select {
		case peer.send <- evt:
		default:
			h.logger.Warn("pruning unresponsive collaborator",
				"room", r.id, "userId", peer.UserID)
			h.removeLocked(r, peer)
			h.metrics.RecordSendFailure()
		}
	}
}

// Leave removes a connection from its room, drops the user's cursor,
// notifies the remaining peers with a synthetic left marker, and tears
// the room down when it empties. Safe to call more than once.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	r, ok := h.rooms[c.roomID]
	if !ok || !r.clients[c] {
		h.mu.Unlock()
		return
	}
	h.removeLocked(r, c)
	delete(r.cursors, c.UserID)

	if len(r.clients) > 0 {
		data, _ := json.Marshal(leftMarker{Left: true})
		h.deliverLocked(r, nil, Event{
			Type:      EventCursor,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Data:      data,
			Timestamp: time.Now().UnixMilli(),
		})
	}
	if len(r.clients) == 0 {
		delete(h.rooms, c.roomID)
		h.metrics.RoomClosed()
	}
	h.mu.Unlock()

	h.metrics.ConnectionClosed(c.roomID)
	h.logger.Info("collaborator left", "room", c.roomID, "userId", c.UserID)
}

// removeLocked unregisters a client and closes its outbound queue,
// which ends its write pump. Callers must hold h.mu.
func (h *Hub) removeLocked(r *room, c *Client) {
	if !r.clients[c] {
		return
	}
	delete(r.clients, c)
	c.closeSend()
}

// RoomSize reports the number of live connections for a document, for
// tests and introspection.
func (h *Hub) RoomSize(documentID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[roomID(documentID)]
	if !ok {
		return 0
	}
	return len(r.clients)
}

// Cursors returns the current cursor table for a document.
func (h *Hub) Cursors(documentID string) []CursorPosition {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[roomID(documentID)]
	if !ok {
		return nil
	}
	out := make([]CursorPosition, 0, len(r.cursors))
	for _, cur := range r.cursors {
		out = append(out, cur)
	}
	return out
}
