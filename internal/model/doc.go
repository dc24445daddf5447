// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core chat domain types: messages, the
// append-only message log, and the presence roster. These types are
// pure state containers with no I/O; they are owned by the single
// UI event loop and are not safe for concurrent use.
package model
