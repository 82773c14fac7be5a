// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
)

const defaultQueryTimeout = 10 * time.Second

func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// withTimeout bounds a query by defaultQueryTimeout unless ctx already has
// an earlier deadline.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < defaultQueryTimeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// isTransactionConflict reports a DuckDB optimistic concurrency conflict.
// Concurrent upserts on the same progress row can hit this; the caller retries.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update")
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// splitList parses a comma separated list column.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}

// closeWithLog closes rows or statements after a read; a failed close is
// logged because it usually hides an iteration error.
func closeWithLog(c io.Closer, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.Warn().Str("component", "database").Str("resource", what).Err(err).Msg("close failed")
	}
}

// closeQuietly is for error paths that already return a more useful error.
func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
