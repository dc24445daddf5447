// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

// ===== FORM MESSAGES =====

// Mode selects which credential operation the form performs.
type Mode int

const (
	// ModeLogin verifies existing credentials.
	ModeLogin Mode = iota
	// ModeRegister creates a new account.
	ModeRegister
)

// String returns the mode name for titles and logging.
func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// SubmitMsg is emitted when the user submits the form. The parent
// owns issuing the actual request.
type SubmitMsg struct {
	Mode     Mode
	Username string
	Password string
}
