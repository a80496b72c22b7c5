package dto

// OnboardingConfig mirrors the client-side app config blob stored under the
// onboarding key of the device store.
type OnboardingConfig struct {
	ShowOnboarding bool `json:"show_onboarding"`
}
