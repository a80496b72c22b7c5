package services

import (
	"encoding/json"

	"github.com/alphabatem/common/context"

	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// OnboardingService keeps the per-device app config blob in the local store.
// Absent or corrupt config decodes to the default (tour not yet shown).
type OnboardingService struct {
	context.DefaultService

	local localStore
}

const ONBOARDING_SVC = "onboarding_svc"

func (svc OnboardingService) Id() string {
	return ONBOARDING_SVC
}

func (svc *OnboardingService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *OnboardingService) Start() error {
	svc.local = svc.Service(SQLITE_SVC).(*SqliteService)
	return nil
}

func (svc *OnboardingService) GetConfig(deviceID string) dto.OnboardingConfig {
	defaultConfig := dto.OnboardingConfig{ShowOnboarding: true}

	value, err := svc.local.GetLocal(deviceID, shared.OnboardingKey)
	if err != nil || value == "" {
		return defaultConfig
	}

	var config dto.OnboardingConfig
	if err := json.Unmarshal([]byte(value), &config); err != nil {
		return defaultConfig
	}
	return config
}

func (svc *OnboardingService) SetConfig(deviceID string, config dto.OnboardingConfig) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return svc.local.SetLocal(deviceID, shared.OnboardingKey, string(data))
}

func (svc *OnboardingService) CompleteOnboarding(deviceID string) error {
	return svc.SetConfig(deviceID, dto.OnboardingConfig{ShowOnboarding: false})
}

func (svc *OnboardingService) ResetOnboarding(deviceID string) error {
	return svc.SetConfig(deviceID, dto.OnboardingConfig{ShowOnboarding: true})
}
