// Package services contains the application services behind the SafeSend
// CLI: signing in with the wallet, the deposit operations and their history,
// and the small onboarding preference kept in the local store.
package services
