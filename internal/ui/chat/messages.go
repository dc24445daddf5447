// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the typed messages the chat view consumes. Server
// events arrive here after the transport decoded them and the root
// model forwarded them into the update loop.
package chat

import (
	"github.com/kazakhpunk/chatapp-tui/internal/model"
)

// =============================================================================
// SERVER EVENT MESSAGES
// =============================================================================

// InboundMessageMsg carries a chat message pushed over the channel.
type InboundMessageMsg struct {
	Message model.Message
}

// UserOnlineMsg announces a user joining the roster.
type UserOnlineMsg struct {
	Username string
}

// UserOfflineMsg announces a user leaving the roster.
type UserOfflineMsg struct {
	Username string
}

// =============================================================================
// SNAPSHOT MESSAGES
// =============================================================================

// SnapshotMsg carries the post-login bulk fetch results. Either slice
// may be nil when that half of the fetch failed; Degraded flags the
// partial case so the view can say so.
type SnapshotMsg struct {
	Users    []model.PresenceEntry
	History  []model.Message
	Degraded bool
}

// =============================================================================
// CHANNEL STATE MESSAGES
// =============================================================================

// ChannelDownMsg reports that the live connection ended.
type ChannelDownMsg struct {
	Err error
}
