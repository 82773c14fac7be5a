// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package services adapts Marquee components to suture's Serve(ctx) error
contract.

# Available Services

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with its own drain timeout.

StoreMaintenanceService pings the DuckDB signal store on an interval and
runs CHECKPOINT when the store answers. Failures are logged and counted in
marquee_store_read_errors_total under the maintenance_* operations.

The recorder consumer needs no wrapper: recorder.Consumer already
implements Serve and String.

# Return Values

	nil        -> service finished, suture will not restart it
	error      -> service crashed, suture restarts it with backoff
	ctx.Err()  -> shutdown requested
*/
package services
