// Package clients provides the instrumented HTTP client used by outbound adapters.
package clients

import "errors"

// ErrRequestFailed wraps transport failures: no response was received.
// Callers translate it into a domain error.
var ErrRequestFailed = errors.New("request failed")
