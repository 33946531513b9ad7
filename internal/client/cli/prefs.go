package cli

import (
	"context"
	"fmt"
)

// Prefs lists the settings stored in the local database.
func (a *App) Prefs(ctx context.Context) error {
	all, err := a.prefs.All(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		printlnFn("No local preferences stored.")
		return nil
	}
	for _, p := range all {
		printlnFn(fmt.Sprintf("  %s = %s", p.Key, p.Value))
	}
	return nil
}

// ResetPrefs wipes every local preference after confirmation. The wallet
// keystore lives in its own file and is not touched.
func (a *App) ResetPrefs(ctx context.Context) error {
	if err := Confirm(a.reader, "Reset all local preferences?", a.out); err != nil {
		return err
	}
	if err := a.prefs.ResetAll(ctx); err != nil {
		return err
	}
	printlnFn("Local preferences cleared.")
	return nil
}
