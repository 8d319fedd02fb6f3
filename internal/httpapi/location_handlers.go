// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryal/cryal/internal/trip"
)

func (s *Server) handleRecordLocation(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())

	var body trip.RecordLocationRequest
	if err := decodeStrict(r, "location", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	location, err := s.api.RecordLocation(r.Context(), requestor, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, location)
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())

	locations, err := s.api.ListLocations(r.Context(), requestor, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, locations)
}
