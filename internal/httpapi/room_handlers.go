// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package httpapi

import (
	"net/http"

	"github.com/cryal/cryal/internal/trip"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())

	rooms, err := s.api.ListRooms(r.Context(), requestor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())

	var body trip.CreateRoomRequest
	if err := decodeStrict(r, "room", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.api.CreateRoom(r.Context(), requestor, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())

	var body trip.JoinRoomRequest
	if err := decodeStrict(r, "membership", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	membership, err := s.api.JoinRoom(r.Context(), requestor, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, membership)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail, err := s.api.GetRoom(r.Context(), requestor, roomID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.api.DeleteRoom(r.Context(), requestor, roomID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleExitRoom(w http.ResponseWriter, r *http.Request) {
	requestor, _ := requestorFrom(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.api.ExitRoom(r.Context(), requestor, roomID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
