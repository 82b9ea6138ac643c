// Package errs declares the error kinds the export pipeline sorts failures
// by. Kinds travel as oops error codes so they survive wrapping; the batch
// loop uses them to tell run-fatal errors from per-dashboard ones, and the
// final summary prints them next to each failed slug.
package errs

import (
	"github.com/samber/oops"
)

const (
	// Auth covers credential retrieval failures and 401 responses. Fatal
	// to the entire run: every call needs the same credential.
	Auth = "auth_error"
	// Permission is a 403 response. Fatal for that dashboard only.
	Permission = "permission_error"
	// NotFound is a 404 response or an unresolved slug.
	NotFound = "not_found"
	// Transport is any network-level failure (timeout, DNS, refused).
	Transport = "transport_error"
	// Filesystem covers directory creation and file write failures.
	Filesystem = "filesystem_error"
	// API is any other non-2xx response.
	API = "api_error"
)

// Kind returns the kind recorded on err. Errors that never went through an
// oops builder report the generic "error".
func Kind(err error) string {
	if o, ok := oops.AsOops(err); ok && o.Code() != "" {
		return o.Code()
	}
	return "error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind string) bool {
	return err != nil && Kind(err) == kind
}
