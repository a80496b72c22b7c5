package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type OnboardingHandler struct {
	onboardingSvc OnboardingServiceInterface
}

func NewOnboardingHandler(onboardingSvc OnboardingServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{onboardingSvc: onboardingSvc}
}

// @Summary Onboarding state
// @Description Whether this device should show the intro walkthrough. Defaults to true for a fresh device.
// @Tags onboarding
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=dto.OnboardingConfig}
// @Router /api/v1/onboarding [get]
func (h *OnboardingHandler) GetConfig(c *fiber.Ctx) error {
	config := h.onboardingSvc.GetConfig(identity(c).DeviceID)
	return shared.ResponseJSON(c, http.StatusOK, "Success", config)
}

// @Summary Complete onboarding
// @Tags onboarding
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/onboarding/complete [post]
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	if err := h.onboardingSvc.CompleteOnboarding(identity(c).DeviceID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Onboarding completed", nil)
}

// @Summary Reset onboarding
// @Tags onboarding
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/onboarding/reset [post]
func (h *OnboardingHandler) Reset(c *fiber.Ctx) error {
	if err := h.onboardingSvc.ResetOnboarding(identity(c).DeviceID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Onboarding reset", nil)
}
