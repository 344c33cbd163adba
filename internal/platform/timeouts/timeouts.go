// Package timeouts defines the durations shared by the feedstore server and
// its command-line client.
package timeouts

import "time"

// GRPCDial caps the wait for a feedstore peer to accept connections and
// report healthy.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single feed cache call made by feedctl.
const GRPCRequest = 5 * time.Second

// Shutdown bounds graceful gRPC stop and telemetry flush on exit.
const Shutdown = 5 * time.Second
