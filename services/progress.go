package services

import (
	"encoding/json"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/model"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type localStore interface {
	GetLocal(deviceID, key string) (string, error)
	SetLocal(deviceID, key, value string) error
	DeleteLocal(deviceID, key string) error
}

type documentStore interface {
	GetUserDocument(userID string) (*model.UserDocument, error)
	SaveUserDocument(userID string, progress catalog.ProgressMap, stats catalog.UserStats) error
}

type statsProjector interface {
	UpdateEntry(userID string, stats catalog.UserStats, override *dto.ProfileOverride) error
}

// ProgressService owns the dual-persistence progress map. Backend choice is
// made per call, never at construction:
//   - reads fall back to the local store on any remote failure;
//   - writes fail hard on remote failure (no local fallback write, so the
//     device copy never silently diverges ahead of the cloud record);
//   - successful remote writes mirror to the local store best-effort.
type ProgressService struct {
	context.DefaultService

	local     localStore
	remote    documentStore
	projector statsProjector

	modules []catalog.Module
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	svc.modules = catalog.BuildCatalog()
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.local = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.remote = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.projector = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	return nil
}

func (svc *ProgressService) Modules() []catalog.Module {
	return svc.modules
}

// GetProgress resolves the progress map. Authenticated reads come from the
// remote document, degrading silently to the local copy when the remote is
// unreachable. Guest reads come from the local store directly.
func (svc *ProgressService) GetProgress(id shared.Identity) (catalog.ProgressMap, string, error) {
	if !id.Authenticated() {
		return svc.readLocal(id.DeviceID), shared.SourceLocal, nil
	}

	doc, err := svc.remote.GetUserDocument(id.UserID)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": id.UserID,
			"error":   err.Error(),
		}).Warn("Remote progress read failed, falling back to local store")
		return svc.readLocal(id.DeviceID), shared.SourceLocal, nil
	}

	return decodeProgress(doc.Progress), shared.SourceCloud, nil
}

// SaveProgress persists the full map. For authenticated users the remote
// write must succeed; the leaderboard projection and the local mirror are
// both best-effort afterwards.
func (svc *ProgressService) SaveProgress(id shared.Identity, progress catalog.ProgressMap) error {
	if !id.Authenticated() {
		err := svc.writeLocal(id.DeviceID, progress)
		RecordProgressSave(shared.SourceLocal, err)
		return err
	}

	stats := catalog.CalculateUserPoints(svc.modules, progress)

	if err := svc.remote.SaveUserDocument(id.UserID, progress, stats); err != nil {
		RecordProgressSave(shared.SourceCloud, err)
		return err
	}
	RecordProgressSave(shared.SourceCloud, nil)

	if err := svc.projector.UpdateEntry(id.UserID, stats, nil); err != nil {
		RecordLeaderboardProjection(err)
		log.WithFields(log.Fields{
			"user_id": id.UserID,
			"error":   err.Error(),
		}).Warn("Leaderboard projection failed after progress save")
	} else {
		RecordLeaderboardProjection(nil)
	}

	if err := svc.writeLocal(id.DeviceID, progress); err != nil {
		log.WithFields(log.Fields{
			"device_id": id.DeviceID,
			"error":     err.Error(),
		}).Warn("Local mirror write failed after cloud save")
	}

	return nil
}

// ToggleModule is a read-modify-write over the full map. Concurrent toggles
// from two sessions race; the last write wins.
func (svc *ProgressService) ToggleModule(id shared.Identity, moduleID int, completed bool) error {
	progress, _, err := svc.GetProgress(id)
	if err != nil {
		return err
	}

	progress[moduleID] = completed
	return svc.SaveProgress(id, progress)
}

// ResetProgress clears the local copy unconditionally. For authenticated
// users it additionally zeroes the remote document and the leaderboard
// projection; a remote failure is logged and does not undo the local clear.
func (svc *ProgressService) ResetProgress(id shared.Identity) error {
	if err := svc.local.DeleteLocal(id.DeviceID, shared.ProgressKey); err != nil {
		log.WithFields(log.Fields{
			"device_id": id.DeviceID,
			"error":     err.Error(),
		}).Warn("Local progress clear failed")
	}

	if !id.Authenticated() {
		return nil
	}

	var emptyStats catalog.UserStats
	if err := svc.remote.SaveUserDocument(id.UserID, catalog.ProgressMap{}, emptyStats); err != nil {
		log.WithFields(log.Fields{
			"user_id": id.UserID,
			"error":   err.Error(),
		}).Error("Remote progress reset failed")
		return nil
	}

	if err := svc.projector.UpdateEntry(id.UserID, emptyStats, nil); err != nil {
		log.WithFields(log.Fields{
			"user_id": id.UserID,
			"error":   err.Error(),
		}).Warn("Leaderboard projection failed after reset")
	}

	return nil
}

// MigrateLocalProgress pushes a non-empty device map as the user's initial
// cloud progress. Overwrite, not merge, and intentionally unguarded: running
// it twice clobbers any cloud progress accumulated since the first run. Only
// the signup flow may call it.
func (svc *ProgressService) MigrateLocalProgress(deviceID, userID string) (bool, error) {
	progress := svc.readLocal(deviceID)
	if len(progress) == 0 {
		return false, nil
	}

	stats := catalog.CalculateUserPoints(svc.modules, progress)
	if err := svc.remote.SaveUserDocument(userID, progress, stats); err != nil {
		return false, err
	}

	if err := svc.projector.UpdateEntry(userID, stats, nil); err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Leaderboard projection failed after migration")
	}

	return true, nil
}

// Stats assembles the full derived scoring view for the caller.
func (svc *ProgressService) Stats(id shared.Identity) (*dto.StatsResponse, error) {
	progress, _, err := svc.GetProgress(id)
	if err != nil {
		return nil, err
	}

	stats := catalog.CalculateUserPoints(svc.modules, progress)

	return &dto.StatsResponse{
		Stats:               stats,
		Breakdown:           catalog.CalculatePointsBreakdown(svc.modules, progress),
		Achievements:        catalog.Achievements(stats),
		TotalPossiblePoints: catalog.TotalPossiblePoints(svc.modules),
		TotalModules:        len(svc.modules),
		OverallProgress:     catalog.OverallProgress(svc.modules, progress),
	}, nil
}

func (svc *ProgressService) CategoryProgress(id shared.Identity) (*dto.CategoryProgressResponse, error) {
	progress, _, err := svc.GetProgress(id)
	if err != nil {
		return nil, err
	}

	return &dto.CategoryProgressResponse{
		Categories: catalog.ProgressByCategory(svc.modules, progress),
		Order:      catalog.Categories(),
	}, nil
}

// readLocal never fails: absent keys and corrupt JSON both decode to the
// empty map.
func (svc *ProgressService) readLocal(deviceID string) catalog.ProgressMap {
	value, err := svc.local.GetLocal(deviceID, shared.ProgressKey)
	if err != nil || value == "" {
		return catalog.ProgressMap{}
	}
	return decodeProgress([]byte(value))
}

func (svc *ProgressService) writeLocal(deviceID string, progress catalog.ProgressMap) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return svc.local.SetLocal(deviceID, shared.ProgressKey, string(data))
}

func decodeProgress(data []byte) catalog.ProgressMap {
	if len(data) == 0 {
		return catalog.ProgressMap{}
	}
	var progress catalog.ProgressMap
	if err := json.Unmarshal(data, &progress); err != nil {
		return catalog.ProgressMap{}
	}
	if progress == nil {
		progress = catalog.ProgressMap{}
	}
	return progress
}
