// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the sync client process.
//
// It wires the local store, the remote adapter, the sync session and the
// background workers (connectivity probing and the periodic sync timer),
// then hands control to a frontend: the terminal UI, or a headless loop
// that only keeps the queue draining.
package client
