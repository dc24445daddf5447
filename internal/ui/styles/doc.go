// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chat TUI.
//
// The package defines an adaptive color palette, a Theme aggregating
// every Lip Gloss style the views use, and spinner configurations for
// pending states.
//
// # Color Palette
//
// All colors are lipgloss.AdaptiveColor pairs so the UI reads well on
// both light and dark terminals. Accents follow a consistent scheme:
// cyan for brand and identity, purple for selection, emerald for
// presence and success, rose for errors, amber for degraded states.
//
// # Usage
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	header := theme.Header.Render("chatapp")
//
// # Accessibility
//
// Status states always pair a color with an ASCII shape indicator
// ([OK], [X], [!]) so they remain distinguishable without color.
package styles
