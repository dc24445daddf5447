// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view: the presence roster on
// the left, the transcript of the selected conversation on the right,
// and the compose line underneath.
//
// The view is a thin projection over the synchronization engine. It
// holds no message or roster state of its own; every render walks the
// engine's containers, so an event that mutates them is reflected on
// the next frame with nothing to invalidate.
package chat
