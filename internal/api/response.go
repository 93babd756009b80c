// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Error codes returned in the API envelope.
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnprocessable  = "UNPROCESSABLE"
	ErrCodeTooManyRequest = "TOO_MANY_REQUESTS"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeUnavailable    = "SERVICE_UNAVAILABLE"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// APIError is the error half of the response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// APIMeta carries response provenance.
type APIMeta struct {
	DurationMS int64  `json:"duration_ms"`
	RequestID  string `json:"request_id,omitempty"`
}

// APIResponse is the uniform JSON envelope for every endpoint.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// responder writes envelopes and tracks request timing.
type responder struct {
	logger zerolog.Logger
}

func (rd *responder) writeJSON(w http.ResponseWriter, status int, resp *APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rd.logger.Error().Err(err).Msg("encoding response failed")
	}
}

func (rd *responder) ok(w http.ResponseWriter, start time.Time, data any) {
	rd.writeJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{DurationMS: time.Since(start).Milliseconds()},
	})
}

func (rd *responder) fail(w http.ResponseWriter, status int, code, message, hint string) {
	rd.writeJSON(w, status, &APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Hint: hint},
	})
}
