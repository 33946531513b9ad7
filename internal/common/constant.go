// Package common contains shared constants and sentinel errors used across
// SafeSend components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// OnboardingHideKey is the local metadata key of the "don't show again" flag.
const OnboardingHideKey = "safesend-onboarding-hide"
