package tui

import "errors"

// ErrNoServices is returned by New when no client session is given.
var ErrNoServices = errors.New("tui: no client services")
