// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryal/cryal/internal/trip"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	plans, err := s.api.ListPlans(r.Context(), requestor, roomID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body trip.CreatePlanRequest
	if err := decodeStrict(r, "plan", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.api.CreatePlan(r.Context(), requestor, roomID, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := s.api.GetPlan(r.Context(), requestor, roomID, chi.URLParam(r, "planName"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.api.DeletePlan(r.Context(), requestor, roomID, chi.URLParam(r, "planName")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListWaypoints(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	waypoints, err := s.api.ListWaypoints(r.Context(), requestor, roomID, chi.URLParam(r, "planName"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, waypoints)
}

func (s *Server) handleCreateWaypoint(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body trip.CreateWaypointRequest
	if err := decodeStrict(r, "waypoint", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	wp, err := s.api.CreateWaypoint(r.Context(), requestor, roomID, chi.URLParam(r, "planName"), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, wp)
}

func (s *Server) handleGetWaypoint(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	wp, err := s.api.GetWaypoint(r.Context(), requestor, roomID, chi.URLParam(r, "planName"), seq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wp)
}

func (s *Server) handleDeleteWaypoint(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.api.DeleteWaypoint(r.Context(), requestor, roomID, chi.URLParam(r, "planName"), seq); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
