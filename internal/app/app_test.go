package app

import (
	"context"
	"testing"

	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/repos"
	"github.com/yungbote/smartpath-backend/internal/data/repos/testutil"
	"github.com/yungbote/smartpath-backend/internal/data/snapshot"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestLoadReferenceWithoutDatabase(t *testing.T) {
	snap, profiles, err := loadReference(context.Background(), logger.NewNop(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("loadReference: %v", err)
	}
	if len(snap.Courses) != 22 || profiles.Len() != len(snap.Profiles) {
		t.Fatalf("unexpected reference data: courses=%d profiles=%d", len(snap.Courses), profiles.Len())
	}
}

func TestLoadReferenceSeedsThenReadsDatabase(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	db := testutil.Tx(t, testutil.DB(t, &repos.CourseProfileRecord{}))

	_, profiles, err := loadReference(ctx, log, testConfig(t), db)
	if err != nil {
		t.Fatalf("loadReference (seed): %v", err)
	}
	def, _ := snapshot.Default()
	if profiles.Len() != len(def.Profiles) {
		t.Fatalf("seed pass: got=%d profiles", profiles.Len())
	}

	// Recalibrate one course in the table; the next load must pick it up.
	repo := repos.NewCourseProfileRepo(db, log)
	if err := repo.Upsert(ctx, nil, []catalog.CourseProfile{{
		CourseID: 1, Label: "高等数学", Domains: []string{"数学基础", "微积分"},
		IRT: &catalog.IRTParams{BaseDifficulty: 1.1, Discrimination: 1},
	}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_, profiles, err = loadReference(ctx, log, testConfig(t), db)
	if err != nil {
		t.Fatalf("loadReference (read): %v", err)
	}
	p, ok := profiles.ByID(1)
	if !ok || p.IRT == nil || p.IRT.BaseDifficulty != 1.1 {
		t.Fatalf("stored profile not used: got=%+v", p)
	}
}

func TestLoadReferenceRejectsInvalidStoredProfiles(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	db := testutil.Tx(t, testutil.DB(t, &repos.CourseProfileRecord{}))

	bad := []catalog.CourseProfile{{
		CourseID: 1, Label: "高等数学", Domains: []string{"数学基础"},
		IRT: &catalog.IRTParams{BaseDifficulty: 9, Discrimination: 1},
	}}
	if err := repos.NewCourseProfileRepo(db, log).Upsert(ctx, nil, bad); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_, profiles, err := loadReference(ctx, log, testConfig(t), db)
	if err != nil {
		t.Fatalf("loadReference: %v", err)
	}
	p, _ := profiles.ByID(1)
	if p.IRT == nil || p.IRT.BaseDifficulty != 0.8 {
		t.Fatalf("invalid stored profile should be ignored: got=%+v", p)
	}
}

func TestWireStoresWithoutBackends(t *testing.T) {
	snap, err := snapshot.Default()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	stores := wireStores(context.Background(), logger.NewNop(), testConfig(t), Clients{}, snap)
	if stores.Ping != nil {
		t.Fatalf("no primary store should mean no ping")
	}
	if !stores.Fallback.Degraded() {
		t.Fatalf("store without primary should report degraded")
	}
	st, err := stores.Store.Stats(context.Background())
	if err != nil || st.TotalCourses != 22 {
		t.Fatalf("stats: got=%+v err=%v", st, err)
	}
}
