package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type CatalogHandler struct {
	progressSvc ProgressServiceInterface
}

func NewCatalogHandler(progressSvc ProgressServiceInterface) *CatalogHandler {
	return &CatalogHandler{progressSvc: progressSvc}
}

// @Summary Course catalog
// @Description Full ordered module list with classification flags. Identical for every caller.
// @Tags catalog
// @Produce json
// @Success 200 {object} shared.Response{data=dto.CatalogResponse}
// @Router /api/v1/catalog [get]
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=3600")

	modules := h.progressSvc.Modules()
	return shared.ResponseJSON(c, http.StatusOK, "Success", dto.CatalogResponse{
		Modules: modules,
		Total:   len(modules),
	})
}

// @Summary Per-category progress
// @Description Completion counts and percentage for every category, including untouched ones.
// @Tags catalog
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Success 200 {object} shared.Response{data=dto.CategoryProgressResponse}
// @Router /api/v1/catalog/categories [get]
func (h *CatalogHandler) GetCategories(c *fiber.Ctx) error {
	resp, err := h.progressSvc.CategoryProgress(identity(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
