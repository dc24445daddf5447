// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import "encoding/json"

// ===== WIRE EVENTS =====

// Event names carried in the envelope. The client publishes join and
// message; the server pushes message, userOnline, and userOffline.
const (
	EventJoin        = "join"
	EventMessage     = "message"
	EventUserOnline  = "userOnline"
	EventUserOffline = "userOffline"
)

// envelope is the framing for every event in both directions. Data is
// decoded lazily once the event name is known.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// presencePayload is the body of userOnline and userOffline events.
type presencePayload struct {
	Username string `json:"username"`
}

// joinPayload announces the authenticated identity on the channel.
type joinPayload struct {
	Username string `json:"username"`
}
