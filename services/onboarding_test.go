package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

func newTestOnboardingService() (*OnboardingService, *fakeLocalStore) {
	local := newFakeLocalStore()
	return &OnboardingService{local: local}, local
}

func TestOnboardingDefaultsToShown(t *testing.T) {
	svc, _ := newTestOnboardingService()

	config := svc.GetConfig("fresh-device")
	assert.True(t, config.ShowOnboarding)
}

func TestOnboardingCompleteRoundTrip(t *testing.T) {
	svc, _ := newTestOnboardingService()

	require.NoError(t, svc.CompleteOnboarding("device-1"))
	assert.False(t, svc.GetConfig("device-1").ShowOnboarding)

	require.NoError(t, svc.ResetOnboarding("device-1"))
	assert.True(t, svc.GetConfig("device-1").ShowOnboarding)
}

func TestOnboardingCorruptConfigFallsBackToDefault(t *testing.T) {
	svc, local := newTestOnboardingService()
	require.NoError(t, local.SetLocal("device-1", shared.OnboardingKey, "{broken"))

	assert.True(t, svc.GetConfig("device-1").ShowOnboarding)
}

func TestOnboardingIsPerDevice(t *testing.T) {
	svc, _ := newTestOnboardingService()

	require.NoError(t, svc.CompleteOnboarding("device-1"))
	assert.False(t, svc.GetConfig("device-1").ShowOnboarding)
	assert.True(t, svc.GetConfig("device-2").ShowOnboarding)
}
