// Package client contains the CLI's connection to the Voices ledger.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register/Login, post listing and mutations, and Ping.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor, bounds every
//     call with a timeout and maps gRPC status codes back to the sentinel
//     errors of package common.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite session database and applies embedded goose migrations.
//
// # Error Handling
//
// Ledger outcomes come back as common.ErrorDuplicateAccount,
// common.ErrorInvalidCredentials, common.ErrorValidation,
// common.ErrorNotFound, common.ErrorUnauthorized and
// common.ErrorUnauthenticated. Transport failures and timeouts are reported
// as ErrUnavailable. Match them with errors.Is.
//
// # Concurrency
//
// GRPCClient is safe for concurrent use; the online watcher pings while the
// REPL issues requests.
package client
