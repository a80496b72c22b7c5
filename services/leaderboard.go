package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/model"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type leaderboardStore interface {
	GetUser(userID string) (*model.User, error)
	UpsertLeaderboardEntry(entry *model.LeaderboardEntry) error
	QueryLeaderboard(orderField string, limit int) ([]model.LeaderboardEntry, error)
	CountLeaderboardEntries() (int64, error)
	DeleteStaleLeaderboardEntries(cutoff time.Time) (int64, error)
}

type leaderboardCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// LeaderboardService projects aggregated stats into the denormalized ranking
// collection and reads it back ordered. Projections are idempotent overwrites
// keyed by user id; rank is always recomputed from query position, never
// stored.
type LeaderboardService struct {
	appContext.DefaultService

	store leaderboardStore
	cache leaderboardCache

	retentionDays int
	closed        chan struct{}
}

const LEADERBOARD_SVC = "leaderboard_svc"

const (
	// Full-fetch cap used when locating a single user's rank.
	leaderboardRankCap = 1000

	// Pool size fetched before applying a time-range filter.
	leaderboardFilterPool = 100

	leaderboardCacheTTL = 30 * time.Second
	leaderboardCacheKey = "leaderboard:top"
)

// orderFieldForType whitelists the per-type sort columns.
var orderFieldForType = map[string]string{
	shared.ModuleTypeKC:            "completed_kcs",
	shared.ModuleTypeLab:           "completed_labs",
	shared.ModuleTypeExitTicket:    "completed_exit_tickets",
	shared.ModuleTypeDemonstration: "completed_demonstrations",
	shared.ModuleTypeActivity:      "completed_activities",
}

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *appContext.Context) error {
	if v := os.Getenv("LEADERBOARD_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			svc.retentionDays = days
		}
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	svc.store = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.cache = svc.Service(REDIS_SVC).(*RedisService)

	svc.closed = make(chan struct{}, 1)
	if svc.retentionDays > 0 {
		go svc.retentionJanitor()
	}
	return nil
}

func (svc *LeaderboardService) Shutdown() {
	svc.closed <- struct{}{}
}

// retentionJanitor prunes entries from users inactive past the retention
// window, once a day.
func (svc *LeaderboardService) retentionJanitor() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := svc.CleanupStale(svc.retentionDays); err != nil {
				log.WithField("error", err.Error()).Warn("Leaderboard retention cleanup failed")
			}
		case <-svc.closed:
			return
		}
	}
}

// UpdateEntry upserts the user's denormalized record, merging override fields
// over the stored profile over defaults. Invoked after every successful
// progress save and profile update; callers treat failures as non-fatal.
func (svc *LeaderboardService) UpdateEntry(userID string, stats catalog.UserStats, override *dto.ProfileOverride) error {
	user, err := svc.store.GetUser(userID)
	if err != nil {
		return err
	}

	displayName := user.DisplayName
	email := user.Email
	photoURL := user.PhotoURL
	if override != nil {
		if override.DisplayName != "" {
			displayName = override.DisplayName
		}
		if override.Email != "" {
			email = override.Email
		}
		if override.PhotoURL != "" {
			photoURL = override.PhotoURL
		}
	}
	if displayName == "" {
		displayName = "Anonymous"
	}

	entry := &model.LeaderboardEntry{
		UID:                     userID,
		DisplayName:             displayName,
		Email:                   email,
		PhotoURL:                photoURL,
		TotalPoints:             stats.TotalPoints,
		CompletedModules:        stats.CompletedModules,
		CompletedKCs:            stats.CompletedKCs,
		CompletedLabs:           stats.CompletedLabs,
		CompletedExitTickets:    stats.CompletedExitTickets,
		CompletedDemonstrations: stats.CompletedDemonstrations,
		CompletedActivities:     stats.CompletedActivities,
		LastActive:              time.Now(),
	}

	if err := svc.store.UpsertLeaderboardEntry(entry); err != nil {
		return err
	}

	svc.invalidateCache()
	return nil
}

// GetLeaderboard returns up to limit entries ordered by
// (total_points desc, last_active desc), rank assigned 1-based by position.
func (svc *LeaderboardService) GetLeaderboard(limit int) (*dto.LeaderboardResponse, error) {
	entries, err := svc.fetchOrdered(limit)
	if err != nil {
		return nil, err
	}

	totalUsers := len(entries)
	if count, err := svc.store.CountLeaderboardEntries(); err == nil {
		totalUsers = int(count)
	}

	responses := make([]dto.LeaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toEntryResponse(entry, i+1)
	}

	return &dto.LeaderboardResponse{
		Entries:    responses,
		TotalUsers: totalUsers,
	}, nil
}

// EnhancedLeaderboard adds the per-type point contributions to each entry.
func (svc *LeaderboardService) EnhancedLeaderboard(limit int) (*dto.EnhancedLeaderboardResponse, error) {
	board, err := svc.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}

	enhanced := make([]dto.EnhancedLeaderboardEntry, len(board.Entries))
	for i, entry := range board.Entries {
		enhanced[i] = dto.EnhancedLeaderboardEntry{
			LeaderboardEntryResponse: entry,
			KCPoints:                 entry.CompletedKCs * catalog.PointsSystem.KnowledgeChecks,
			LabPoints:                entry.CompletedLabs * catalog.PointsSystem.Labs,
			ExitTicketPoints:         entry.CompletedExitTickets * catalog.PointsSystem.ExitTickets,
			DemoPoints:               entry.CompletedDemonstrations * catalog.PointsSystem.Demonstrations,
			ActivityPoints:           entry.CompletedActivities * catalog.PointsSystem.Activities,
		}
	}

	return &dto.EnhancedLeaderboardResponse{Entries: enhanced}, nil
}

// GetFilteredLeaderboard restricts the board to users active within the given
// time range and re-ranks the survivors. The filter runs over a fixed pool of
// top entries, not the whole table.
func (svc *LeaderboardService) GetFilteredLeaderboard(timeRange string, limit int) (*dto.FilteredLeaderboardResponse, error) {
	var cutoff time.Time
	switch timeRange {
	case shared.TimeRangeAllTime:
	case shared.TimeRangeWeekly:
		cutoff = time.Now().AddDate(0, 0, -7)
	case shared.TimeRangeMonthly:
		cutoff = time.Now().AddDate(0, -1, 0)
	default:
		return nil, shared.ErrBadRequest(fmt.Sprintf("invalid time range: %s", timeRange), nil)
	}

	pool, err := svc.fetchOrdered(leaderboardFilterPool)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.LeaderboardEntry, 0, len(pool))
	for _, entry := range pool {
		if cutoff.IsZero() || !entry.LastActive.Before(cutoff) {
			filtered = append(filtered, entry)
		}
	}

	totalUsers := len(filtered)
	if limit < len(filtered) {
		filtered = filtered[:limit]
	}

	responses := make([]dto.LeaderboardEntryResponse, len(filtered))
	for i, entry := range filtered {
		responses[i] = toEntryResponse(entry, i+1)
	}

	return &dto.FilteredLeaderboardResponse{
		Entries:    responses,
		TimeRange:  timeRange,
		TotalUsers: totalUsers,
	}, nil
}

// LeaderboardStats summarizes the board: total and average points, top score
// and the count of users active within the last week.
func (svc *LeaderboardService) LeaderboardStats() (*dto.LeaderboardStatsResponse, error) {
	entries, err := svc.fetchOrdered(leaderboardRankCap)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardStatsResponse{}
	if len(entries) == 0 {
		return resp, nil
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	for _, entry := range entries {
		resp.TotalPoints += entry.TotalPoints
		if entry.TotalPoints > resp.TopScore {
			resp.TopScore = entry.TotalPoints
		}
		if !entry.LastActive.Before(weekAgo) {
			resp.ActiveUsers++
		}
	}
	resp.AveragePoints = int(math.Round(float64(resp.TotalPoints) / float64(len(entries))))

	return resp, nil
}

// GetUserRank locates the user in the full (capped) ranking and returns a
// window of 2*contextCount+1 entries centered on them, re-ranked locally.
// A user with no entry yields a nil UserEntry, not an error.
func (svc *LeaderboardService) GetUserRank(userID string, contextCount int) (*dto.UserRankResponse, error) {
	entries, err := svc.fetchOrdered(leaderboardRankCap)
	if err != nil {
		return nil, err
	}

	userIndex := -1
	for i, entry := range entries {
		if entry.UID == userID {
			userIndex = i
			break
		}
	}

	if userIndex == -1 {
		return &dto.UserRankResponse{
			UserEntry:          nil,
			SurroundingEntries: []dto.LeaderboardEntryResponse{},
			TotalUsers:         len(entries),
		}, nil
	}

	userEntry := toEntryResponse(entries[userIndex], userIndex+1)

	// Rank 1 reports full progress; everyone else is measured by how much of
	// the board sits below them, plus the point gap to the entry above.
	rankProgress := &dto.RankProgress{
		CurrentRank:    userIndex + 1,
		TotalUsers:     len(entries),
		ProgressToNext: 100,
	}
	if userIndex > 0 {
		rankProgress.ProgressToNext = float64(len(entries)-userIndex) / float64(len(entries)) * 100
		rankProgress.PointsToNext = entries[userIndex-1].TotalPoints - entries[userIndex].TotalPoints
	}

	start := userIndex - contextCount
	if start < 0 {
		start = 0
	}
	end := userIndex + contextCount + 1
	if end > len(entries) {
		end = len(entries)
	}

	surrounding := make([]dto.LeaderboardEntryResponse, 0, end-start)
	for i := start; i < end; i++ {
		surrounding = append(surrounding, toEntryResponse(entries[i], i+1))
	}

	return &dto.UserRankResponse{
		UserEntry:          &userEntry,
		SurroundingEntries: surrounding,
		TotalUsers:         len(entries),
		RankProgress:       rankProgress,
	}, nil
}

// TopPerformersByType ranks by one per-type completion count.
func (svc *LeaderboardService) TopPerformersByType(moduleType string, limit int) (*dto.LeaderboardResponse, error) {
	orderField, ok := orderFieldForType[moduleType]
	if !ok {
		return nil, shared.ErrBadRequest(fmt.Sprintf("invalid module type: %s", moduleType), nil)
	}

	entries, err := svc.store.QueryLeaderboard(orderField, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LeaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toEntryResponse(entry, i+1)
	}

	return &dto.LeaderboardResponse{
		Entries:    responses,
		TotalUsers: len(responses),
	}, nil
}

// CleanupStale removes entries inactive for more than the given number of
// days. Admin maintenance only.
func (svc *LeaderboardService) CleanupStale(daysOld int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	removed, err := svc.store.DeleteStaleLeaderboardEntries(cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		svc.invalidateCache()
		log.WithField("removed", removed).Info("Cleaned up stale leaderboard entries")
	}
	return removed, nil
}

// fetchOrdered serves the top limit entries of the primary ordering. One
// canonical list (capped at leaderboardRankCap) is cached and sliced per
// request, so a single invalidation covers every page size a client may ask
// for. Cache failures degrade to a direct query.
func (svc *LeaderboardService) fetchOrdered(limit int) ([]model.LeaderboardEntry, error) {
	entries, err := svc.fetchRanked()
	if err != nil {
		return nil, err
	}

	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (svc *LeaderboardService) fetchRanked() ([]model.LeaderboardEntry, error) {
	ctx := context.Background()

	if svc.cache != nil {
		var cached []model.LeaderboardEntry
		if err := svc.cache.GetJSON(ctx, leaderboardCacheKey, &cached); err != nil {
			log.WithField("error", err.Error()).Warn("Leaderboard cache read failed")
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	entries, err := svc.store.QueryLeaderboard("total_points", leaderboardRankCap)
	if err != nil {
		return nil, err
	}

	if svc.cache != nil && len(entries) > 0 {
		if err := svc.cache.Set(ctx, leaderboardCacheKey, entries, leaderboardCacheTTL); err != nil {
			log.WithField("error", err.Error()).Warn("Leaderboard cache write failed")
		}
	}

	return entries, nil
}

func (svc *LeaderboardService) invalidateCache() {
	if svc.cache == nil {
		return
	}

	if err := svc.cache.Delete(context.Background(), leaderboardCacheKey); err != nil {
		log.WithField("error", err.Error()).Warn("Leaderboard cache invalidation failed")
	}
}

func toEntryResponse(entry model.LeaderboardEntry, rank int) dto.LeaderboardEntryResponse {
	return dto.LeaderboardEntryResponse{
		UID:                     entry.UID,
		DisplayName:             entry.DisplayName,
		PhotoURL:                entry.PhotoURL,
		TotalPoints:             entry.TotalPoints,
		CompletedModules:        entry.CompletedModules,
		CompletedKCs:            entry.CompletedKCs,
		CompletedLabs:           entry.CompletedLabs,
		CompletedExitTickets:    entry.CompletedExitTickets,
		CompletedDemonstrations: entry.CompletedDemonstrations,
		CompletedActivities:     entry.CompletedActivities,
		Rank:                    rank,
		LastActive:              entry.LastActive,
	}
}
