// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize() stored %dx%d", theme.Width, theme.Height)
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{width: 40, want: LayoutNarrow},
		{width: 59, want: LayoutNarrow},
		{width: 60, want: LayoutMedium},
		{width: 99, want: LayoutMedium},
		{width: 100, want: LayoutWide},
		{width: 200, want: LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Online,
		StatusIndicators.Connected,
		StatusIndicators.Offline,
	}
	for _, ind := range indicators {
		if ind == "" {
			t.Error("status indicator must not be empty")
		}
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderHelpersIncludeIndicator(t *testing.T) {
	if !strings.Contains(RenderError("boom"), StatusIndicators.Error) {
		t.Error("RenderError() should include the error indicator")
	}
	if !strings.Contains(RenderSuccess("done"), StatusIndicators.Success) {
		t.Error("RenderSuccess() should include the success indicator")
	}
	if !strings.Contains(RenderWarning("careful"), StatusIndicators.Warning) {
		t.Error("RenderWarning() should include the warning indicator")
	}
}

func TestSpinnerDuration(t *testing.T) {
	if LineSpinner.Duration() <= 0 {
		t.Error("LineSpinner duration must be positive")
	}
	if len(DotsSpinner.Frames) == 0 {
		t.Error("DotsSpinner must have frames")
	}
}
