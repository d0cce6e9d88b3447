// Package accounts implements account management and stateless JWT
// authentication for a single tenant API: credential verification,
// access/refresh token issuance and validation, a per request session
// filter, and the REST surface that exposes them.
//
// The core (token service, identity provider, orchestrator) depends only
// on narrow interfaces so it can be exercised without an HTTP server.
// The fiber handlers and middleware are thin adapters over that core.
package accounts
