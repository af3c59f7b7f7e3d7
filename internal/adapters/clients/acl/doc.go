// Package acl is the anti-corruption layer between the quote API wire format
// and the domain.
//
// External DTOs stay unexported in this package. HTTP statuses and transport
// failures are translated into domain errors:
//
//   - 404 Not Found becomes [domain.ErrNotFound]
//   - 400 and 422 become [domain.ErrValidation]
//   - other statuses and transport failures become [domain.ErrUnavailable]
//
// [QuoteClient] is the Go counterpart of the page script: it reads the quote
// list once and hands it to the rotator.
package acl
