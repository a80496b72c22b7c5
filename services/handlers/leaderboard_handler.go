package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type LeaderboardHandler struct {
	lbSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(lbSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{lbSvc: lbSvc}
}

func limitQuery(c *fiber.Ctx, def int) int {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

// @Summary Leaderboard
// @Description Top users ordered by total points. Ranks are positional and contiguous from 1.
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	resp, err := h.lbSvc.GetLeaderboard(limitQuery(c, 50))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Enhanced leaderboard
// @Description Leaderboard with per-type point contributions for each entry.
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} shared.Response{data=dto.EnhancedLeaderboardResponse}
// @Router /api/v1/leaderboard/enhanced [get]
func (h *LeaderboardHandler) GetEnhancedLeaderboard(c *fiber.Ctx) error {
	resp, err := h.lbSvc.EnhancedLeaderboard(limitQuery(c, 50))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Filtered leaderboard
// @Description Leaderboard restricted to users active within the given time range (all-time, weekly or monthly), re-ranked after filtering.
// @Tags leaderboard
// @Produce json
// @Param range query string false "Time range" default(all-time)
// @Param limit query int false "Max entries" default(20)
// @Success 200 {object} shared.Response{data=dto.FilteredLeaderboardResponse}
// @Router /api/v1/leaderboard/filtered [get]
func (h *LeaderboardHandler) GetFilteredLeaderboard(c *fiber.Ctx) error {
	resp, err := h.lbSvc.GetFilteredLeaderboard(c.Query("range", shared.TimeRangeAllTime), limitQuery(c, 20))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Leaderboard summary
// @Description Aggregate board statistics: total and average points, top score and users active within the last week.
// @Tags leaderboard
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LeaderboardStatsResponse}
// @Router /api/v1/leaderboard/stats [get]
func (h *LeaderboardHandler) GetLeaderboardStats(c *fiber.Ctx) error {
	resp, err := h.lbSvc.LeaderboardStats()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Caller's rank
// @Description The caller's leaderboard position with a window of surrounding entries.
// @Tags leaderboard
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param context query int false "Surrounding entries on each side" default(2)
// @Success 200 {object} shared.Response{data=dto.UserRankResponse}
// @Router /api/v1/leaderboard/rank [get]
func (h *LeaderboardHandler) GetUserRank(c *fiber.Ctx) error {
	contextCount, err := strconv.Atoi(c.Query("context", "2"))
	if err != nil || contextCount < 0 {
		contextCount = 2
	}

	resp, err := h.lbSvc.GetUserRank(identity(c).UserID, contextCount)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Top performers by module type
// @Description Users ranked by completion count of one module type (knowledge_checks, labs, exit_tickets, demonstrations or activities).
// @Tags leaderboard
// @Produce json
// @Param type path string true "Module type"
// @Param limit query int false "Max entries" default(10)
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard/top/{type} [get]
func (h *LeaderboardHandler) GetTopPerformers(c *fiber.Ctx) error {
	resp, err := h.lbSvc.TopPerformersByType(c.Params("type"), limitQuery(c, 10))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
