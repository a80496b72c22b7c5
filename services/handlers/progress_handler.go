package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// @Summary Get progress map
// @Description Completion map for the caller. Authenticated callers read the cloud document with silent local fallback; guests read the device store.
// @Tags progress
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	progress, source, err := h.progressSvc.GetProgress(identity(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", dto.ProgressResponse{
		Progress: progress,
		Source:   source,
	})
}

// @Summary Toggle module completion
// @Description Set a single module's completion state. Read-modify-write over the full map; last write wins.
// @Tags progress
// @Accept json
// @Produce json
// @Param id path int true "Module ID"
// @Param toggleRequest body dto.ToggleRequest true "Target completion state"
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/progress/{id} [put]
func (h *ProgressHandler) ToggleModule(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return shared.ErrBadRequest("invalid module id", nil)
	}

	// Module ids are positional, starting at 1.
	if moduleID < 1 || moduleID > len(h.progressSvc.Modules()) {
		return shared.ErrNotFound("unknown module id")
	}

	var req dto.ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	id := identity(c)
	if err := h.progressSvc.ToggleModule(id, moduleID, *req.Completed); err != nil {
		return err
	}

	progress, source, err := h.progressSvc.GetProgress(id)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Progress updated", dto.ProgressResponse{
		Progress: progress,
		Source:   source,
	})
}

// @Summary Reset progress
// @Description Clear all completion state. The device copy is cleared unconditionally; for authenticated callers the cloud document is zeroed best-effort.
// @Tags progress
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/progress [delete]
func (h *ProgressHandler) ResetProgress(c *fiber.Ctx) error {
	if err := h.progressSvc.ResetProgress(identity(c)); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Progress reset", nil)
}

// @Summary User statistics
// @Description Derived scoring view: per-type counts, points breakdown, achievements and overall percentage.
// @Tags progress
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=dto.StatsResponse}
// @Router /api/v1/stats [get]
func (h *ProgressHandler) GetStats(c *fiber.Ctx) error {
	resp, err := h.progressSvc.Stats(identity(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
