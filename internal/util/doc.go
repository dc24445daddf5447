// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides string helpers shared by the UI packages.
//
// # Key Functions
//
//   - TruncateWidth: display-cell aware truncation for terminal layout
//   - PadWidth: display-cell aware padding for fixed-width panes
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateWidth(longText, 50)
package util
