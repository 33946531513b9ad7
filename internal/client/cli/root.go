package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/safesend/internal/client/wallet"
)

func (a *App) getStatus() string {
	s := ""
	if a.wallet != nil {
		s = shortAddress(a.wallet.Address()) + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, offers to unlock an existing wallet and then runs
// the command loop on stdin.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to SafeSend (type 'help' for commands)")

	if show, err := a.onboarding.ShouldShow(ctx); err != nil {
		a.logger.Warn(ctx, "read onboarding flag", "error", err)
	} else if show {
		printOnboarding()
	}

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if wallet.Exists(a.config.KeystorePath) {
		if err := a.Login(ctx); err != nil {
			printlnFn(describeError(err))
		}
	} else {
		printlnFn("No wallet yet. Use 'newwallet' or 'import' to get started.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
