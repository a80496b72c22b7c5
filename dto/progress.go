package dto

import "github.com/JuniorCarti/aws-restart-tracker-api/catalog"

type ToggleRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

func (r ToggleRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ProgressResponse struct {
	Progress catalog.ProgressMap `json:"progress"`
	// Backend the map was served from: "local" or "cloud".
	Source string `json:"source"`
}

type StatsResponse struct {
	Stats               catalog.UserStats       `json:"stats"`
	Breakdown           catalog.PointsBreakdown `json:"points_breakdown"`
	Achievements        []string                `json:"achievements"`
	TotalPossiblePoints int                     `json:"total_possible_points"`
	TotalModules        int                     `json:"total_modules"`
	OverallProgress     float64                 `json:"overall_progress"`
}

type CatalogResponse struct {
	Modules []catalog.Module `json:"modules"`
	Total   int              `json:"total"`
}

type CategoryProgressResponse struct {
	Categories map[string]catalog.CategoryProgress `json:"categories"`
	// Category names in catalog order; the map above is unordered.
	Order []string `json:"order"`
}
