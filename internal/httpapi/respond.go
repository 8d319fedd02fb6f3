// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/cryal/cryal/internal/trip"
	"github.com/cryal/cryal/pkg/errutil"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps a typed service error onto a status code and a caller-safe
// body. Internal detail never reaches the wire; it is logged here instead.
func (s *Server) writeError(w http.ResponseWriter, _ *http.Request, err error) {
	kind := trip.KindOf(err)

	var status int
	switch kind {
	case trip.KindNotFound:
		status = http.StatusNotFound
	case trip.KindForbidden, trip.KindAdminCannotLeave:
		status = http.StatusForbidden
	case trip.KindInvalidCredential:
		status = http.StatusUnauthorized
	case trip.KindValidation:
		status = http.StatusBadRequest
	case trip.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		errutil.LogError(s.logger, "request failed", err)
		s.writeJSON(w, status, errorBody{Code: trip.KindInternal.String(), Message: "internal error"})
		return
	}

	if status == http.StatusForbidden && s.metrics != nil {
		var typed *trip.Error
		if errors.As(err, &typed) {
			s.metrics.PolicyDenials.WithLabelValues(typed.Resource).Inc()
		}
	}

	s.writeJSON(w, status, errorBody{Code: kind.String(), Message: err.Error()})
}

// decodeStrict decodes a JSON body rejecting unknown fields, so a caller
// cannot smuggle extra attributes into a request (mass assignment).
func decodeStrict(r *http.Request, resource string, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return trip.ValidationError(resource, "request body has unexpected or malformed fields")
	}
	return nil
}

// roomIDParam parses the room id path segment. A non-ULID segment cannot name
// an existing room, so it is reported as missing rather than invalid.
func roomIDParam(r *http.Request) (ulid.ULID, error) {
	id, err := ulid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		return ulid.ULID{}, trip.NotFoundError("room")
	}
	return id, nil
}

// seqParam parses the waypoint sequence path segment.
func seqParam(r *http.Request) (int, error) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil || seq < 1 {
		return 0, trip.NotFoundError("waypoint")
	}
	return seq, nil
}
