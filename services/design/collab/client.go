// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package collab

import (
	"sync"
	"time"
)

// sendBuffer is the per-client outbound queue depth. A peer that falls
// this far behind is considered dead and pruned.
const sendBuffer = 64

// writeTimeout bounds a single frame write so one wedged TCP
// connection cannot hold the write pump forever.
const writeTimeout = 10 * time.Second

// wsConn is the slice of *websocket.Conn the collab layer needs;
// narrowed to an interface so hub tests can run without real sockets.
type wsConn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is one collaborator's connection: a read pump feeding the hub
// and a write pump draining the outbound queue. The two pumps are the
// connection's only writers/readers of the underlying socket.
type Client struct {
	hub      *Hub
	roomID   string
	UserID   string
	UserName string

	conn wsConn
	send chan Event
	once sync.Once
}

// closeSend shuts the outbound queue exactly once, ending WritePump.
func (c *Client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

// ReadPump consumes inbound events until the connection dies and hands
// each to the hub for fan-out. It blocks, and always leaves the room on
// the way out regardless of which failure ended the loop.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Leave(c)
		_ = c.conn.Close()
	}()
	for {
		var evt Event
		if err := c.conn.ReadJSON(&evt); err != nil {
			c.hub.logger.Info("collaboration stream closed",
				"room", c.roomID, "userId", c.UserID, "reason", err.Error())
			return
		}
		c.hub.Broadcast(c, evt)
	}
}

// WritePump drains the outbound queue onto the socket. It exits when
// the hub closes the queue (prune or leave) or a write fails; a failed
// write closes the socket, which in turn ends ReadPump and triggers
// room cleanup there.
func (c *Client) WritePump() {
	for evt := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(evt); err != nil {
			c.hub.logger.Warn("failed to deliver collaboration event",
				"room", c.roomID, "userId", c.UserID, "error", err)
			break
		}
	}
	_ = c.conn.Close()
}
