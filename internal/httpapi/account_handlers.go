// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryal/cryal/internal/auth"
	"github.com/cryal/cryal/internal/trip"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body trip.RegisterRequest
	if err := decodeStrict(r, "account", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.api.Register(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var signed auth.SignedRequest
	if err := decodeStrict(r, "credential", &signed); err != nil {
		s.writeError(w, r, err)
		return
	}

	authorized, err := s.api.Login(r.Context(), signed)
	if err != nil {
		if trip.KindOf(err) == trip.KindInvalidCredential {
			s.countAuthFailure("login_rejected")
		}
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authorized)
}

func (s *Server) handleLookupAccount(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())

	authorized, err := s.api.LookupAccount(r.Context(), requestor, chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authorized)
}
