// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

// Package httpapi exposes the trip service over HTTP. It owns the route
// table, bearer-token authentication, strict request decoding, and the
// mapping from typed service errors to status codes.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/cryal/cryal/internal/auth"
	"github.com/cryal/cryal/internal/observability"
	"github.com/cryal/cryal/internal/trip"
)

// API is the set of trip service operations the HTTP boundary calls.
type API interface {
	Register(ctx context.Context, req trip.RegisterRequest) (trip.Profile, error)
	Login(ctx context.Context, signed auth.SignedRequest) (trip.AuthorizedAccount, error)
	LookupAccount(ctx context.Context, req trip.Requestor, username string) (trip.AuthorizedAccount, error)

	ListRooms(ctx context.Context, req trip.Requestor) (trip.RoomList, error)
	GetRoom(ctx context.Context, req trip.Requestor, roomID ulid.ULID) (trip.RoomDetail, error)
	CreateRoom(ctx context.Context, req trip.Requestor, body trip.CreateRoomRequest) (trip.CreateRoomResult, error)
	JoinRoom(ctx context.Context, req trip.Requestor, body trip.JoinRoomRequest) (*trip.Membership, error)
	DeleteRoom(ctx context.Context, req trip.Requestor, roomID ulid.ULID) error
	ExitRoom(ctx context.Context, req trip.Requestor, roomID ulid.ULID) error

	ListPlans(ctx context.Context, req trip.Requestor, roomID ulid.ULID) ([]*trip.Plan, error)
	CreatePlan(ctx context.Context, req trip.Requestor, roomID ulid.ULID, body trip.CreatePlanRequest) (*trip.Plan, error)
	GetPlan(ctx context.Context, req trip.Requestor, roomID ulid.ULID, planName string) (trip.PlanDetail, error)
	DeletePlan(ctx context.Context, req trip.Requestor, roomID ulid.ULID, planName string) error

	CreateWaypoint(ctx context.Context, req trip.Requestor, roomID ulid.ULID, planName string, body trip.CreateWaypointRequest) (*trip.Waypoint, error)
	ListWaypoints(ctx context.Context, req trip.Requestor, roomID ulid.ULID, planName string) ([]*trip.Waypoint, error)
	GetWaypoint(ctx context.Context, req trip.Requestor, roomID ulid.ULID, planName string, seq int) (*trip.Waypoint, error)
	DeleteWaypoint(ctx context.Context, req trip.Requestor, roomID ulid.ULID, planName string, seq int) error

	RecordLocation(ctx context.Context, req trip.Requestor, body trip.RecordLocationRequest) (*trip.Location, error)
	ListLocations(ctx context.Context, req trip.Requestor, username string) ([]*trip.Location, error)
}

var _ API = (*trip.Service)(nil)

// Config holds the dependencies of the HTTP server.
type Config struct {
	Addr    string
	Service API
	Tokens  *auth.Codec
	Metrics *observability.Metrics // optional
	Logger  *slog.Logger           // optional, defaults to slog.Default()
}

// Server serves the Cryal HTTP API.
type Server struct {
	addr       string
	api        API
	tokens     *auth.Codec
	metrics    *observability.Metrics
	logger     *slog.Logger
	router     chi.Router
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the HTTP server and builds its route table.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:    cfg.Addr,
		api:     cfg.Service,
		tokens:  cfg.Tokens,
		metrics: cfg.Metrics,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/accounts", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/accounts/{username}", s.handleLookupAccount)
			r.Get("/accounts/{username}/locations", s.handleListLocations)
			r.Post("/locations", s.handleRecordLocation)

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", s.handleListRooms)
				r.Post("/", s.handleCreateRoom)
				r.Post("/join", s.handleJoinRoom)

				r.Route("/{roomID}", func(r chi.Router) {
					r.Get("/", s.handleGetRoom)
					r.Delete("/", s.handleDeleteRoom)
					r.Post("/exit", s.handleExitRoom)

					r.Route("/plans", func(r chi.Router) {
						r.Get("/", s.handleListPlans)
						r.Post("/", s.handleCreatePlan)

						r.Route("/{planName}", func(r chi.Router) {
							r.Get("/", s.handleGetPlan)
							r.Delete("/", s.handleDeletePlan)

							r.Route("/waypoints", func(r chi.Router) {
								r.Get("/", s.handleListWaypoints)
								r.Post("/", s.handleCreateWaypoint)
								r.Get("/{seq}", s.handleGetWaypoint)
								r.Delete("/{seq}", s.handleDeleteWaypoint)
							})
						})
					})
				})
			})
		})
	})

	return r
}

// Start begins serving. It returns an error channel that receives any error
// from the HTTP server after startup; the channel is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the listen address, or "" when the server is stopped.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
