// Package client contains client-side building blocks for TaskKeeper.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the API interface) covering signup, login,
//     verify, logout, health and the owner-scoped task endpoints.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches the
//     bearer token and maps response statuses to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI
//     session cache.
//
// # Error Handling
//
// Failed calls return *APIError, which unwraps to one of ErrUnauthorized,
// ErrNotFound, ErrValidation, ErrAlreadyExists, ErrUnavailable or
// ErrUnexpectedStatus. Match them with errors.Is.
//
// HTTPClient is safe for concurrent use. Every call honors the context.
package client
