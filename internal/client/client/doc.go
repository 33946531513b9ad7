// Package client talks to the SafeSend ledger.
//
// Client is the transport contract; GRPCClient implements it over gRPC,
// injecting the access token through an interceptor and refreshing it once
// when the server reports it expired. Status codes are mapped back to the
// ledger's sentinel errors, and Classify and Remedy turn those into the
// codes and hints shown to users.
//
// InitDatabase and RunMigrations bootstrap the CLI's local SQLite store.
package client
