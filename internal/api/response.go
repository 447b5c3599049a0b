// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Response is the envelope for every JSON response.
type Response struct {
	Status    string    `json:"status"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError carries a machine-readable code plus a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, logger zerolog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(&Response{
		Status:    "ok",
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, logger zerolog.Logger, status int, code, message string, err error) {
	if err != nil {
		logger.Error().Str("code", code).Err(err).Msg("api error")
	}

	w.Header().Set("Content-Type", "application/json")
	body, merr := json.Marshal(&Response{
		Status:    "error",
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
	if merr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, werr := w.Write(body); werr != nil {
		logger.Error().Err(werr).Msg("failed to write error response")
	}
}
