package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type UserHandler struct {
	authSvc  AuthServiceInterface
	mediaSvc MediaServiceInterface
}

func NewUserHandler(authSvc AuthServiceInterface, mediaSvc MediaServiceInterface) *UserHandler {
	return &UserHandler{
		authSvc:  authSvc,
		mediaSvc: mediaSvc,
	}
}

// @Summary Get profile
// @Tags user
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/user/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	resp, err := h.authSvc.GetProfile(identity(c).UserID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Update profile
// @Description Update display name and photo. The leaderboard entry is re-projected so both stay in sync there.
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param updateRequest body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/v1/user/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.authSvc.UpdateProfile(identity(c).UserID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile updated", resp)
}

// @Summary Account statistics
// @Description Stats snapshot cached on the cloud document, recomputed when absent.
// @Tags user
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserStatsResponse}
// @Router /api/v1/user/stats [get]
func (h *UserHandler) GetUserStats(c *fiber.Ctx) error {
	resp, err := h.authSvc.GetUserStats(identity(c).UserID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Upload avatar
// @Description Store an avatar image (jpeg, png or webp, 5 MiB max) and set it as the profile photo.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/user/avatar [post]
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return shared.ErrBadRequest("avatar file is required", nil)
	}

	resp, err := h.mediaSvc.UploadAvatar(identity(c).UserID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Avatar uploaded", resp)
}
