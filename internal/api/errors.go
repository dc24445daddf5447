// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ===== ERROR TYPES =====

// ErrorType classifies client errors for handling decisions.
type ErrorType string

const (
	// ErrTypeAuth means the server understood the request and said no.
	ErrTypeAuth ErrorType = "auth"
	// ErrTypeConnection means the server could not be reached.
	ErrTypeConnection ErrorType = "connection"
	// ErrTypeTimeout means the request exceeded its deadline.
	ErrTypeTimeout ErrorType = "timeout"
	// ErrTypeInvalidResponse means the server replied with something
	// we could not accept.
	ErrTypeInvalidResponse ErrorType = "invalid_response"
)

// ===== SENTINEL ERRORS =====

var (
	// ErrInvalidCredentials indicates a rejected login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken indicates a rejected registration.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUnreachable indicates the server could not be contacted.
	ErrUnreachable = errors.New("server unreachable")
	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")
)

// ===== CLIENT ERROR =====

// ClientError carries a classified error with optional cause.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// newAuthError creates an authentication failure error.
func newAuthError(message string, cause error) *ClientError {
	return &ClientError{Type: ErrTypeAuth, Message: message, Cause: cause}
}

// newConnectionError classifies a transport-level failure, promoting
// deadline expiry to a timeout error.
func newConnectionError(message string, cause error) *ClientError {
	typ := ErrTypeConnection
	wrapped := ErrUnreachable
	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		typ = ErrTypeTimeout
		wrapped = ErrTimeout
	}
	return &ClientError{Type: typ, Message: message, Cause: fmt.Errorf("%w: %w", wrapped, cause)}
}

// newResponseError creates an unexpected-response error.
func newResponseError(message string, cause error) *ClientError {
	return &ClientError{Type: ErrTypeInvalidResponse, Message: message, Cause: cause}
}

// IsAuthError reports whether err is a rejected-credential failure.
func IsAuthError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeAuth
}

// IsNetworkError reports whether err is a connectivity or timeout
// failure, as opposed to the server actively rejecting the request.
func IsNetworkError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && (ce.Type == ErrTypeConnection || ce.Type == ErrTypeTimeout)
}
