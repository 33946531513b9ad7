package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/ledger"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	NewWallet(ctx context.Context) error
	ImportWallet(ctx context.Context) error
	Login(ctx context.Context) error
	Address(ctx context.Context) error
	Balance(ctx context.Context) error
	Faucet(ctx context.Context) error
	Constants(ctx context.Context) error
	GenPass(ctx context.Context) error
	Send(ctx context.Context) error
	Claim(ctx context.Context, args []string) error
	Reclaim(ctx context.Context, args []string) error
	Pending(ctx context.Context) error
	History(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Onboarding(ctx context.Context) error
	DontShow(ctx context.Context) error
	Prefs(ctx context.Context) error
	ResetPrefs(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: newwallet, import, login, genpass, onboarding, dontshow, prefs, resetprefs, exit"
	helpLoggedIn  = "Available commands: address, balance, faucet, constants, genpass, send, claim [id], reclaim [id], pending, history, show <id>, onboarding, dontshow, prefs, resetprefs, exit"
)

// describeError renders err with its user-facing code and remedy.
func describeError(err error) string {
	if errors.Is(err, ledger.ErrUserAborted) {
		return "Cancelled."
	}
	code := client.Classify(err)
	msg := fmt.Sprintf("Error [%s]: %v\n%s", code, err, client.Remedy(code))
	if ledger.Retryable(err) {
		msg += "\nThe deposit is unchanged; run 'claim' again with the corrected password."
	}
	return msg
}

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Command errors are printed and the loop goes on.
// Commands prompt on the same reader, so input is never double-buffered.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("safesend %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
		case "newwallet":
			cmdErr = a.NewWallet(ctx)
		case "import":
			cmdErr = a.ImportWallet(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "address":
			cmdErr = a.Address(ctx)
		case "balance":
			cmdErr = a.Balance(ctx)
		case "faucet":
			cmdErr = a.Faucet(ctx)
		case "constants":
			cmdErr = a.Constants(ctx)
		case "genpass":
			cmdErr = a.GenPass(ctx)
		case "send":
			cmdErr = a.Send(ctx)
		case "claim":
			cmdErr = a.Claim(ctx, args)
		case "reclaim":
			cmdErr = a.Reclaim(ctx, args)
		case "pending":
			cmdErr = a.Pending(ctx)
		case "history":
			cmdErr = a.History(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "onboarding":
			cmdErr = a.Onboarding(ctx)
		case "dontshow":
			cmdErr = a.DontShow(ctx)
		case "prefs":
			cmdErr = a.Prefs(ctx)
		case "resetprefs":
			cmdErr = a.ResetPrefs(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}
