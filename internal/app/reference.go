package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/repos"
	"github.com/yungbote/smartpath-backend/internal/data/snapshot"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

// loadReference returns the static catalogue and the course profile index. Profiles come from
// the reference database when one is connected and holds a valid set; an empty table is filled
// from the catalogue.
func loadReference(ctx context.Context, log *logger.Logger, cfg *config.Config, gdb *gorm.DB) (*catalog.Snapshot, *catalog.ProfileIndex, error) {
	log.Info("Loading reference data...")
	snap, err := loadSnapshot(cfg.Reference.SnapshotPath)
	if err != nil {
		return nil, nil, err
	}
	if gdb == nil {
		return snap, catalog.NewProfileIndex(snap.Profiles), nil
	}

	repo := repos.NewCourseProfileRepo(gdb, log)
	stored, err := repo.List(ctx, nil)
	if err != nil {
		log.Warn("Reading course profiles failed, using catalogue profiles", "error", err)
		return snap, catalog.NewProfileIndex(snap.Profiles), nil
	}
	if len(stored) == 0 {
		if err := repo.Upsert(ctx, nil, snap.Profiles); err != nil {
			log.Warn("Seeding course profiles failed", "error", err)
		} else {
			log.Info("Seeded course profiles", "count", len(snap.Profiles))
		}
		return snap, catalog.NewProfileIndex(snap.Profiles), nil
	}

	candidate := *snap
	candidate.Profiles = stored
	if err := snapshot.Validate(&candidate); err != nil {
		log.Error("Stored course profiles are invalid, using catalogue profiles", "error", err)
		return snap, catalog.NewProfileIndex(snap.Profiles), nil
	}
	log.Info("Loaded course profiles from reference database", "count", len(stored))
	return &candidate, catalog.NewProfileIndex(stored), nil
}

func loadSnapshot(path string) (*catalog.Snapshot, error) {
	if strings.TrimSpace(path) == "" {
		snap, err := snapshot.Default()
		if err != nil {
			return nil, fmt.Errorf("embedded catalogue: %w", err)
		}
		return snap, nil
	}
	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return snap, nil
}
