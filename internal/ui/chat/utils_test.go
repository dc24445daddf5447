// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/kazakhpunk/chatapp-tui/internal/model"
)

func TestFormatTimestamp(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			name: "today shows time only",
			t:    now,
			want: now.Format("15:04"),
		},
		{
			name: "this week shows day and time",
			t:    now.Add(-3 * 24 * time.Hour),
			want: now.Add(-3 * 24 * time.Hour).Format("Mon 15:04"),
		},
		{
			name: "older shows date and time",
			t:    now.Add(-30 * 24 * time.Hour),
			want: now.Add(-30 * 24 * time.Hour).Format("Jan 2 15:04"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimestamp(tt.t); got != tt.want {
				t.Errorf("formatTimestamp() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayTimestampFallback(t *testing.T) {
	m := model.Message{Timestamp: "garbage"}
	if got := displayTimestamp(m); got != "garbage" {
		t.Errorf("displayTimestamp() = %q, want raw string", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{name: "short line unchanged", input: "hello", maxWidth: 10, want: "hello"},
		{name: "breaks at space", input: "hello world foo", maxWidth: 11, want: "hello world\nfoo"},
		{name: "preserves newlines", input: "a\nb", maxWidth: 10, want: "a\nb"},
		{name: "zero width unchanged", input: "hello", maxWidth: 0, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("wrapText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapTextLongWord(t *testing.T) {
	got := wrapText(strings.Repeat("x", 25), 10)
	for _, line := range strings.Split(got, "\n") {
		if len([]rune(line)) > 10 {
			t.Errorf("line %q exceeds max width", line)
		}
	}
}

func TestCalculateContentWidth(t *testing.T) {
	if got := calculateContentWidth(80, 8); got != 72 {
		t.Errorf("calculateContentWidth(80, 8) = %d", got)
	}
	if got := calculateContentWidth(5, 8); got != 3 {
		t.Errorf("narrow width should clamp to 3, got %d", got)
	}
}
