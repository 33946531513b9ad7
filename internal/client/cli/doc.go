// Package cli implements the interactive SafeSend command line.
//
// The REPL reads one command per line and dispatches it to App, which holds
// the unlocked wallet and the client services. Mutating commands show what
// will happen and ask for confirmation; declining aborts with
// ledger.ErrUserAborted. Amounts are entered and printed in ETH.
//
// Interactive input goes through small package-level seams (getSimpleText,
// getPassword, printlnFn) so commands can be tested without a terminal.
package cli
