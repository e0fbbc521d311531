// Package timeouts defines shared timeout constants for the HTTP server and
// client so both sides agree on how long a roll may take.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// HTTPRequest caps a single client round trip, redirects included.
const HTTPRequest = 5 * time.Second

// TelemetryShutdown bounds the final span flush when a command exits.
const TelemetryShutdown = 5 * time.Second
