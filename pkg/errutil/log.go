// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

// Package errutil logs and asserts on structured oops errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError emits err through logger at error level. Errors built with oops
// contribute their code and context as log attributes; anything else is
// logged as a plain string. The HTTP boundary uses this to keep internal
// failure detail server-side.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{
			"error", oopsErr.Error(),
		}
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
	} else {
		logger.Error(msg, "error", err)
	}
}
