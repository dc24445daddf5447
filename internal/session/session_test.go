// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "testing"

func TestSessionLifecycle(t *testing.T) {
	s := New()

	if s.Authenticated() {
		t.Error("new session should not be authenticated")
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("Phase() = %v, want idle", s.Phase())
	}

	attempt, ok := s.Begin()
	if !ok {
		t.Fatal("Begin() on idle session should succeed")
	}
	if s.Phase() != PhasePending {
		t.Errorf("Phase() = %v, want pending", s.Phase())
	}

	if !s.Succeed(attempt, "alice") {
		t.Fatal("Succeed() with live attempt should apply")
	}
	if !s.Authenticated() || s.Username() != "alice" {
		t.Errorf("session not authenticated as alice: %q", s.Username())
	}
	if s.Phase() != PhaseSucceeded {
		t.Errorf("Phase() = %v, want succeeded", s.Phase())
	}
}

func TestSessionDoubleSubmitSuppressed(t *testing.T) {
	s := New()

	if _, ok := s.Begin(); !ok {
		t.Fatal("first Begin() should succeed")
	}
	if _, ok := s.Begin(); ok {
		t.Error("Begin() while pending should be refused")
	}
}

func TestSessionFailAllowsRetry(t *testing.T) {
	s := New()

	attempt, _ := s.Begin()
	if !s.Fail(attempt) {
		t.Fatal("Fail() with live attempt should apply")
	}
	if s.Authenticated() {
		t.Error("failed attempt should not authenticate")
	}
	if s.Phase() != PhaseFailed {
		t.Errorf("Phase() = %v, want failed", s.Phase())
	}

	if _, ok := s.Begin(); !ok {
		t.Error("Begin() after failure should succeed")
	}
}

func TestSessionStaleResultsIgnored(t *testing.T) {
	s := New()

	first, _ := s.Begin()
	s.Fail(first)
	second, _ := s.Begin()

	// A late result from the first attempt must not resolve the second.
	if s.Succeed(first, "mallory") {
		t.Error("stale Succeed() should be ignored")
	}
	if s.Authenticated() {
		t.Error("stale result should not authenticate")
	}

	if !s.Succeed(second, "alice") {
		t.Error("live attempt should still resolve")
	}
}

func TestSessionCurrent(t *testing.T) {
	s := New()
	attempt, _ := s.Begin()
	s.Succeed(attempt, "alice")

	if !s.Current(attempt, "alice") {
		t.Error("resolved attempt for the same user should be current")
	}
	if s.Current(attempt, "bob") {
		t.Error("different username should not be current")
	}
	if s.Current(attempt+1, "alice") {
		t.Error("unknown attempt should not be current")
	}
}
