package cli

import "context"

const onboardingText = `SafeSend sends ETH that only the holder of a password can claim.
  1. Create a wallet with 'newwallet' (or 'import' a key), then 'faucet' for test ETH.
  2. 'send' locks ETH for a recipient until it expires. They get a small notification amount right away.
  3. Share the deposit id and the password with the recipient, who runs 'claim'.
  4. Until it is claimed you can take the deposit back with 'reclaim'.
Type 'dontshow' to stop showing this at startup.`

func printOnboarding() {
	printlnFn(onboardingText)
}

// Onboarding prints the introduction and shows it again on future starts.
func (a *App) Onboarding(ctx context.Context) error {
	printOnboarding()
	return a.onboarding.Reset(ctx)
}

func (a *App) DontShow(ctx context.Context) error {
	if err := a.onboarding.Hide(ctx); err != nil {
		return err
	}
	printlnFn("The introduction will no longer be shown at startup. Type 'onboarding' to see it.")
	return nil
}
