// Package http implements the HTTP surface of the reference authority.
//
// It exposes the apply and list endpoints the sync client talks to, plus a
// health probe. Authentication, request tracing, access logging, response
// compression and admission control are handled here before requests are
// delegated to the service layer.
package http
