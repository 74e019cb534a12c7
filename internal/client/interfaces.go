// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until ctx is done or the
	// user exits.
	Run(ctx context.Context) error
	// Close releases the session, the store and the tracer.
	Close()
}

// Frontend is what the client shows while the background workers run.
type Frontend interface {
	Run(ctx context.Context) error
}
