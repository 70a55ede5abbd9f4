// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API: public blog and intake
// endpoints plus the session-gated admin panel.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"leadpress/internal/apperr"
)

// maxBodySize caps JSON request bodies (1 MB covers the largest post).
const maxBodySize = 1 << 20

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError maps an error to its JSON representation. Domain errors
// carry their own status and client-safe message; everything else is
// logged and answered with a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.As(err)
	if ae == nil {
		ae = apperr.Internal(err)
	}
	if ae.HTTPStatus >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	respondJSON(w, ae.HTTPStatus, map[string]string{"error": ae.Message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

// idParam parses the {id} URL parameter as a UUID.
func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid ID")
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// pageParams reads page and limit with bounds applied.
func pageParams(r *http.Request, defLimit, maxLimit int) (page, limit int) {
	page = queryInt(r, "page", 1)
	limit = queryInt(r, "limit", defLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// trimPtr returns nil when the pointed-to string is empty, so optional
// form fields store as NULL rather than "".
func trimPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
