// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks who the user is claiming to be and how far
// that claim has been verified. It is a pure state machine owned by
// the UI event loop; the numbered attempts exist so that results of
// abandoned or superseded requests can be recognized and discarded.
package session

// ===== TYPES =====

// Phase is the verification state of the current credential attempt.
type Phase int

const (
	// PhaseIdle means no attempt is in flight or resolved.
	PhaseIdle Phase = iota
	// PhasePending means a request has been issued and not answered.
	PhasePending
	// PhaseSucceeded means the last attempt was accepted.
	PhaseSucceeded
	// PhaseFailed means the last attempt was rejected or errored.
	PhaseFailed
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the authentication state for this process. There is no
// logout: once authenticated the identity holds until exit.
type Session struct {
	username      string
	authenticated bool
	phase         Phase
	attempt       uint64
}

// ===== CONSTRUCTORS =====

// New creates an unauthenticated session.
func New() *Session {
	return &Session{phase: PhaseIdle}
}

// ===== METHODS =====

// Begin opens a new attempt and returns its number. It returns ok ==
// false while another attempt is still pending, which is how double
// submission is suppressed.
func (s *Session) Begin() (attempt uint64, ok bool) {
	if s.phase == PhasePending {
		return 0, false
	}
	s.attempt++
	s.phase = PhasePending
	return s.attempt, true
}

// Succeed resolves the given attempt as accepted and pins the
// identity. Results for superseded attempts are ignored and return
// false.
func (s *Session) Succeed(attempt uint64, username string) bool {
	if attempt != s.attempt || s.phase != PhasePending {
		return false
	}
	s.phase = PhaseSucceeded
	s.username = username
	s.authenticated = true
	return true
}

// Fail resolves the given attempt as rejected. Results for superseded
// attempts are ignored and return false.
func (s *Session) Fail(attempt uint64) bool {
	if attempt != s.attempt || s.phase != PhasePending {
		return false
	}
	s.phase = PhaseFailed
	return true
}

// Current reports whether the given attempt is still the live one and
// the session is still authenticated as the given user. Continuations
// such as the post-login bulk fetch check this before applying their
// results.
func (s *Session) Current(attempt uint64, username string) bool {
	return attempt == s.attempt && s.authenticated && s.username == username
}

// Username returns the verified identity, empty until authenticated.
func (s *Session) Username() string {
	return s.username
}

// Authenticated reports whether an identity has been verified.
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Phase returns the current verification phase.
func (s *Session) Phase() Phase {
	return s.phase
}
