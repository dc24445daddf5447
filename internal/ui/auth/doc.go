// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login and registration form shown
// before the chat view. The form collects credentials and emits a
// SubmitMsg; it never talks to the network itself. While a submission
// is pending the form locks and shows a spinner, so a second enter
// press cannot fire a duplicate request.
package auth
