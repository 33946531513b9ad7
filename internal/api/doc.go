// Package api defines the wire contract of the ledger service: request and
// response messages, the gRPC service description, and a typed client stub.
//
// Messages are plain structs carried by a JSON codec registered under the
// "json" content subtype. Amounts travel as base-10 wei strings, hashes and
// addresses as 0x-prefixed hex.
package api
