// Package ledger implements the password-gated, time-limited deposit
// lifecycle: creation with notification and fee split, claim by password,
// cancellation by the depositor, and the structured receipts and event logs
// produced by each call.
//
// The Engine is storage-agnostic. It evaluates every guard against a State
// before writing anything, so a rejected call leaves the State untouched and
// is reported as a receipt with Success=false rather than as an error.
package ledger
