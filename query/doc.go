// Package query turns a natural-language search request into a
// core.ParsedQuery.
//
// The chat service is asked for a strict JSON rendering of the request.
// When it is unavailable, fails twice, or replies with something that
// cannot be decoded, a deterministic keyword parser takes over, so Parse
// always produces a usable query.
package query
