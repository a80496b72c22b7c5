package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/model"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type fakeLeaderboardStore struct {
	users   map[string]*model.User
	entries map[string]model.LeaderboardEntry
}

func newFakeLeaderboardStore() *fakeLeaderboardStore {
	return &fakeLeaderboardStore{
		users:   map[string]*model.User{},
		entries: map[string]model.LeaderboardEntry{},
	}
}

func (f *fakeLeaderboardStore) GetUser(userID string) (*model.User, error) {
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeLeaderboardStore) UpsertLeaderboardEntry(entry *model.LeaderboardEntry) error {
	f.entries[entry.UID] = *entry
	return nil
}

func (f *fakeLeaderboardStore) QueryLeaderboard(orderField string, limit int) ([]model.LeaderboardEntry, error) {
	sorted := make([]model.LeaderboardEntry, 0, len(f.entries))
	for _, e := range f.entries {
		sorted = append(sorted, e)
	}

	value := func(e model.LeaderboardEntry) int {
		switch orderField {
		case "completed_kcs":
			return e.CompletedKCs
		case "completed_labs":
			return e.CompletedLabs
		case "completed_exit_tickets":
			return e.CompletedExitTickets
		case "completed_demonstrations":
			return e.CompletedDemonstrations
		case "completed_activities":
			return e.CompletedActivities
		default:
			return e.TotalPoints
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if value(sorted[i]) != value(sorted[j]) {
			return value(sorted[i]) > value(sorted[j])
		}
		return sorted[i].LastActive.After(sorted[j].LastActive)
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (f *fakeLeaderboardStore) CountLeaderboardEntries() (int64, error) {
	return int64(len(f.entries)), nil
}

func (f *fakeLeaderboardStore) DeleteStaleLeaderboardEntries(cutoff time.Time) (int64, error) {
	var removed int64
	for uid, e := range f.entries {
		if e.LastActive.Before(cutoff) {
			delete(f.entries, uid)
			removed++
		}
	}
	return removed, nil
}

func newTestLeaderboardService() (*LeaderboardService, *fakeLeaderboardStore) {
	store := newFakeLeaderboardStore()
	svc := &LeaderboardService{store: store}
	return svc, store
}

func seedEntry(store *fakeLeaderboardStore, uid, name string, points int, lastActive time.Time) {
	store.entries[uid] = model.LeaderboardEntry{
		UID:         uid,
		DisplayName: name,
		TotalPoints: points,
		LastActive:  lastActive,
	}
}

func TestUpdateEntryMergesOverrideOverProfile(t *testing.T) {
	svc, store := newTestLeaderboardService()
	store.users["u1"] = &model.User{ID: "u1", DisplayName: "Ada", Email: "ada@example.com", PhotoURL: "stored.png"}

	stats := catalog.UserStats{TotalPoints: 42, CompletedLabs: 3}
	require.NoError(t, svc.UpdateEntry("u1", stats, &dto.ProfileOverride{DisplayName: "Ada L."}))

	entry := store.entries["u1"]
	assert.Equal(t, "Ada L.", entry.DisplayName)
	assert.Equal(t, "ada@example.com", entry.Email)
	assert.Equal(t, "stored.png", entry.PhotoURL)
	assert.Equal(t, 42, entry.TotalPoints)
	assert.Equal(t, 3, entry.CompletedLabs)
}

func TestUpdateEntryAnonymousDefault(t *testing.T) {
	svc, store := newTestLeaderboardService()
	store.users["u1"] = &model.User{ID: "u1", Email: "x@example.com"}

	require.NoError(t, svc.UpdateEntry("u1", catalog.UserStats{}, nil))
	assert.Equal(t, "Anonymous", store.entries["u1"].DisplayName)
}

func TestUpdateEntryIdempotentOverwrite(t *testing.T) {
	svc, store := newTestLeaderboardStoreWithUser()

	stats := catalog.UserStats{TotalPoints: 10}
	require.NoError(t, svc.UpdateEntry("u1", stats, nil))
	require.NoError(t, svc.UpdateEntry("u1", stats, nil))

	assert.Len(t, store.entries, 1)
	assert.Equal(t, 10, store.entries["u1"].TotalPoints)
}

func newTestLeaderboardStoreWithUser() (*LeaderboardService, *fakeLeaderboardStore) {
	svc, store := newTestLeaderboardService()
	store.users["u1"] = &model.User{ID: "u1", DisplayName: "Ada"}
	return svc, store
}

func TestGetLeaderboardRanksContiguous(t *testing.T) {
	svc, store := newTestLeaderboardService()
	now := time.Now()
	seedEntry(store, "u1", "One", 30, now)
	seedEntry(store, "u2", "Two", 20, now)
	seedEntry(store, "u3", "Three", 10, now)
	seedEntry(store, "u4", "Four", 40, now)

	board, err := svc.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 4)
	assert.Equal(t, 4, board.TotalUsers)

	for i, entry := range board.Entries {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "u4", board.Entries[0].UID)
	assert.Equal(t, "u3", board.Entries[3].UID)

	// Same data, same order.
	again, err := svc.GetLeaderboard(10)
	require.NoError(t, err)
	assert.Equal(t, board.Entries, again.Entries)
}

func TestGetLeaderboardTiesBrokenByLastActive(t *testing.T) {
	svc, store := newTestLeaderboardService()
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	seedEntry(store, "older", "Older", 25, older)
	seedEntry(store, "newer", "Newer", 25, newer)

	board, err := svc.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "newer", board.Entries[0].UID)
}

func TestGetLeaderboardRespectsLimit(t *testing.T) {
	svc, store := newTestLeaderboardService()
	now := time.Now()
	for i, uid := range []string{"a", "b", "c", "d", "e"} {
		seedEntry(store, uid, uid, i*10, now)
	}

	board, err := svc.GetLeaderboard(3)
	require.NoError(t, err)
	assert.Len(t, board.Entries, 3)
	// TotalUsers reflects the whole collection, not the page.
	assert.Equal(t, 5, board.TotalUsers)
}

func TestEnhancedLeaderboardPerTypePoints(t *testing.T) {
	svc, store := newTestLeaderboardService()
	store.entries["u1"] = model.LeaderboardEntry{
		UID:                  "u1",
		DisplayName:          "Ada",
		TotalPoints:          9,
		CompletedKCs:         2,
		CompletedLabs:        3,
		CompletedExitTickets: 1,
		LastActive:           time.Now(),
	}

	board, err := svc.EnhancedLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)

	entry := board.Entries[0]
	assert.Equal(t, 2*catalog.PointsSystem.KnowledgeChecks, entry.KCPoints)
	assert.Equal(t, 3*catalog.PointsSystem.Labs, entry.LabPoints)
	assert.Equal(t, 1*catalog.PointsSystem.ExitTickets, entry.ExitTicketPoints)
	assert.Equal(t, 0, entry.DemoPoints)
}

func TestGetUserRankWindow(t *testing.T) {
	svc, store := newTestLeaderboardService()
	now := time.Now()
	for i := 1; i <= 7; i++ {
		uid := string(rune('a' + i - 1))
		seedEntry(store, uid, uid, 100-i, now)
	}

	// "d" sits at rank 4; a context of 1 returns ranks 3..5.
	resp, err := svc.GetUserRank("d", 1)
	require.NoError(t, err)
	require.NotNil(t, resp.UserEntry)
	assert.Equal(t, 4, resp.UserEntry.Rank)
	assert.Equal(t, 7, resp.TotalUsers)

	require.Len(t, resp.SurroundingEntries, 3)
	assert.Equal(t, 3, resp.SurroundingEntries[0].Rank)
	assert.Equal(t, "c", resp.SurroundingEntries[0].UID)
	assert.Equal(t, 5, resp.SurroundingEntries[2].Rank)
	assert.Equal(t, "e", resp.SurroundingEntries[2].UID)
}

func TestGetUserRankWindowClampedAtTop(t *testing.T) {
	svc, store := newTestLeaderboardService()
	now := time.Now()
	seedEntry(store, "first", "First", 30, now)
	seedEntry(store, "second", "Second", 20, now)
	seedEntry(store, "third", "Third", 10, now)

	resp, err := svc.GetUserRank("first", 2)
	require.NoError(t, err)
	require.NotNil(t, resp.UserEntry)
	assert.Equal(t, 1, resp.UserEntry.Rank)
	assert.Len(t, resp.SurroundingEntries, 3)
	assert.Equal(t, 1, resp.SurroundingEntries[0].Rank)
}

func TestGetUserRankAbsentUser(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "u1", "One", 10, time.Now())

	resp, err := svc.GetUserRank("ghost", 2)
	require.NoError(t, err)
	assert.Nil(t, resp.UserEntry)
	assert.Empty(t, resp.SurroundingEntries)
	assert.Equal(t, 1, resp.TotalUsers)
}

func TestTopPerformersByType(t *testing.T) {
	svc, store := newTestLeaderboardService()
	now := time.Now()
	store.entries["kc"] = model.LeaderboardEntry{UID: "kc", CompletedKCs: 9, TotalPoints: 1, LastActive: now}
	store.entries["lab"] = model.LeaderboardEntry{UID: "lab", CompletedLabs: 9, TotalPoints: 99, LastActive: now}

	board, err := svc.TopPerformersByType(shared.ModuleTypeKC, 10)
	require.NoError(t, err)
	require.NotEmpty(t, board.Entries)
	assert.Equal(t, "kc", board.Entries[0].UID)
}

func TestTopPerformersRejectsUnknownType(t *testing.T) {
	svc, _ := newTestLeaderboardService()

	_, err := svc.TopPerformersByType("streaks", 10)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestCleanupStale(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "old", "Old", 10, time.Now().AddDate(0, 0, -60))
	seedEntry(store, "fresh", "Fresh", 20, time.Now())

	removed, err := svc.CleanupStale(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Len(t, store.entries, 1)
	_, ok := store.entries["fresh"]
	assert.True(t, ok)
}

type fakeLeaderboardCache struct {
	data map[string][]byte
}

func newFakeLeaderboardCache() *fakeLeaderboardCache {
	return &fakeLeaderboardCache{data: map[string][]byte{}}
}

func (f *fakeLeaderboardCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.data[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeLeaderboardCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeLeaderboardCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestFilteredLeaderboardWeekly(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "today", "Today", 10, time.Now())
	seedEntry(store, "recent", "Recent", 30, time.Now().AddDate(0, 0, -3))
	seedEntry(store, "stale", "Stale", 50, time.Now().AddDate(0, 0, -10))

	resp, err := svc.GetFilteredLeaderboard(shared.TimeRangeWeekly, 20)
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	assert.Equal(t, shared.TimeRangeWeekly, resp.TimeRange)
	assert.Equal(t, 2, resp.TotalUsers)

	// The filtered survivors are re-ranked contiguously from 1.
	assert.Equal(t, "recent", resp.Entries[0].UID)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, "today", resp.Entries[1].UID)
	assert.Equal(t, 2, resp.Entries[1].Rank)
}

func TestFilteredLeaderboardMonthly(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "recent", "Recent", 30, time.Now().AddDate(0, 0, -10))
	seedEntry(store, "ancient", "Ancient", 50, time.Now().AddDate(0, 0, -40))

	resp, err := svc.GetFilteredLeaderboard(shared.TimeRangeMonthly, 20)
	require.NoError(t, err)

	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "recent", resp.Entries[0].UID)
}

func TestFilteredLeaderboardAllTimePassesEverything(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "recent", "Recent", 30, time.Now())
	seedEntry(store, "ancient", "Ancient", 50, time.Now().AddDate(-1, 0, 0))

	resp, err := svc.GetFilteredLeaderboard(shared.TimeRangeAllTime, 20)
	require.NoError(t, err)

	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, "ancient", resp.Entries[0].UID)
}

func TestFilteredLeaderboardRejectsUnknownRange(t *testing.T) {
	svc, _ := newTestLeaderboardService()

	_, err := svc.GetFilteredLeaderboard("daily", 20)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestFilteredLeaderboardLimitAppliedAfterFilter(t *testing.T) {
	svc, store := newTestLeaderboardService()
	for _, uid := range []string{"a", "b", "c", "d"} {
		seedEntry(store, uid, uid, 10, time.Now())
	}

	resp, err := svc.GetFilteredLeaderboard(shared.TimeRangeWeekly, 2)
	require.NoError(t, err)

	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, 4, resp.TotalUsers)
}

func TestLeaderboardStats(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "a", "A", 100, time.Now())
	seedEntry(store, "b", "B", 201, time.Now().AddDate(0, 0, -3))
	seedEntry(store, "c", "C", 300, time.Now().AddDate(0, 0, -10))

	resp, err := svc.LeaderboardStats()
	require.NoError(t, err)

	assert.Equal(t, 601, resp.TotalPoints)
	assert.Equal(t, 200, resp.AveragePoints)
	assert.Equal(t, 300, resp.TopScore)
	assert.Equal(t, 2, resp.ActiveUsers)
}

func TestLeaderboardStatsEmptyBoard(t *testing.T) {
	svc, _ := newTestLeaderboardService()

	resp, err := svc.LeaderboardStats()
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalPoints)
	assert.Equal(t, 0, resp.AveragePoints)
	assert.Equal(t, 0, resp.TopScore)
	assert.Equal(t, 0, resp.ActiveUsers)
}

func TestGetUserRankProgressAtTop(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "first", "First", 50, time.Now())
	seedEntry(store, "second", "Second", 30, time.Now())

	resp, err := svc.GetUserRank("first", 2)
	require.NoError(t, err)

	require.NotNil(t, resp.RankProgress)
	assert.Equal(t, 1, resp.RankProgress.CurrentRank)
	assert.Equal(t, 2, resp.RankProgress.TotalUsers)
	assert.Equal(t, float64(100), resp.RankProgress.ProgressToNext)
	assert.Equal(t, 0, resp.RankProgress.PointsToNext)
}

func TestGetUserRankProgressMidBoard(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "a", "A", 80, time.Now())
	seedEntry(store, "b", "B", 60, time.Now())
	seedEntry(store, "c", "C", 40, time.Now())
	seedEntry(store, "d", "D", 20, time.Now())

	resp, err := svc.GetUserRank("b", 1)
	require.NoError(t, err)

	require.NotNil(t, resp.RankProgress)
	assert.Equal(t, 2, resp.RankProgress.CurrentRank)
	assert.Equal(t, 4, resp.RankProgress.TotalUsers)
	assert.InDelta(t, 75.0, resp.RankProgress.ProgressToNext, 0.001)
	assert.Equal(t, 20, resp.RankProgress.PointsToNext)
}

func TestGetUserRankProgressAbsentUser(t *testing.T) {
	svc, store := newTestLeaderboardService()
	seedEntry(store, "a", "A", 80, time.Now())

	resp, err := svc.GetUserRank("ghost", 2)
	require.NoError(t, err)
	assert.Nil(t, resp.RankProgress)
}

func TestLeaderboardCacheServesRepeatReads(t *testing.T) {
	svc, store := newTestLeaderboardService()
	svc.cache = newFakeLeaderboardCache()
	seedEntry(store, "a", "A", 80, time.Now())

	_, err := svc.GetLeaderboard(3)
	require.NoError(t, err)

	// One canonical key regardless of the requested limit.
	cache := svc.cache.(*fakeLeaderboardCache)
	assert.Len(t, cache.data, 1)
	_, ok := cache.data[leaderboardCacheKey]
	assert.True(t, ok)
}

func TestLeaderboardUpsertInvalidatesAnyPageSize(t *testing.T) {
	svc, store := newTestLeaderboardService()
	svc.cache = newFakeLeaderboardCache()
	seedEntry(store, "a", "A", 80, time.Now())
	seedEntry(store, "b", "B", 60, time.Now())

	// Warm the cache through a limit no invalidation list would enumerate.
	resp, err := svc.GetLeaderboard(7)
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Entries[0].UID)

	store.users["c"] = &model.User{ID: "c", DisplayName: "C"}
	require.NoError(t, svc.UpdateEntry("c", catalog.UserStats{TotalPoints: 200}, nil))

	resp, err = svc.GetLeaderboard(7)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "c", resp.Entries[0].UID)
	assert.Equal(t, 1, resp.Entries[0].Rank)
}
