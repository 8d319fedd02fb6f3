// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cryal/cryal/internal/trip"
)

type requestorKey struct{}

// requestorFrom returns the authenticated requestor stashed by the
// authenticate middleware. The bool is false on routes outside it.
func requestorFrom(ctx context.Context) (trip.Requestor, bool) {
	req, ok := ctx.Value(requestorKey{}).(trip.Requestor)
	return req, ok
}

// authenticate verifies the bearer token and derives the requestor identity
// for the rest of the request. Missing, malformed, tampered, and expired
// tokens are all rejected the same way.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.countAuthFailure("missing_token")
			s.writeError(w, r, trip.InvalidCredentialError("missing bearer token"))
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			s.countAuthFailure("invalid_token")
			s.writeError(w, r, trip.InvalidCredentialError("invalid or expired token"))
			return
		}

		requestor := trip.Requestor{AccountID: claims.AccountID, Scope: claims.Scope}
		ctx := context.WithValue(r.Context(), requestorKey{}, requestor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) countAuthFailure(reason string) {
	if s.metrics != nil {
		s.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// observe records request count and latency per route pattern. Route patterns
// keep label cardinality bounded; raw paths never become label values.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)

		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
