// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by stores and handlers.
// Every error a store returns for a domain failure is an *AppError carrying
// the HTTP status to surface; anything else is treated as an upstream
// failure and answered with a generic 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a machine-readable code, a client-safe message, and the
// HTTP status to respond with. Cause is for server-side logging only and is
// never sent to clients.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap lets errors.Is and errors.As traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// NotFound creates a 404 error for a named resource, e.g. "Post not found".
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates an error for slug collisions and reference-guarded
// deletes. Surfaced as 400: the admin UI treats conflicts as correctable
// input, same as validation failures.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Conflictf is Conflict with formatting.
func Conflictf(format string, args ...any) *AppError {
	return Conflict(fmt.Sprintf(format, args...))
}

// Validation creates a 400 error for malformed or missing input. The
// message is the first failing field's complaint.
func Validation(msg string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthorized creates a 401 error for unauthenticated admin requests.
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Internal wraps an unexpected server-side error. The cause is logged but
// never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// As extracts the *AppError from err's chain, or nil if there is none.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
