package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/db"
	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/data/repos"
	"github.com/yungbote/smartpath-backend/internal/data/snapshot"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/platform/neo4jdb"
)

func main() {
	var (
		snapshotPath string
		reset        bool
		profiles     bool
		timeout      time.Duration
	)
	flag.StringVar(&snapshotPath, "snapshot", "", "catalogue file to seed from (default: embedded catalogue)")
	flag.BoolVar(&reset, "reset", false, "delete every node before seeding")
	flag.BoolVar(&profiles, "profiles", false, "also upsert course profiles into the reference database")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewWithOptions(cfg.Log.Mode, logger.Options{Level: cfg.Log.Level, Redact: cfg.Log.Redact})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, cfg, snapshotPath, reset, profiles, timeout); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger, cfg *config.Config, snapshotPath string, reset, profiles bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		snap *catalog.Snapshot
		err  error
	)
	if snapshotPath == "" {
		snap, err = snapshot.Default()
	} else {
		snap, err = snapshot.LoadFile(snapshotPath)
	}
	if err != nil {
		return err
	}

	client, err := neo4jdb.New(neo4jdb.Config{
		URI:         cfg.Neo4j.URI,
		User:        cfg.Neo4j.User,
		Password:    cfg.Neo4j.Password,
		Database:    cfg.Neo4j.Database,
		Timeout:     cfg.Neo4j.Timeout,
		MaxPoolSize: cfg.Neo4j.MaxPoolSize,
	}, log)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("NEO4J_URI is not set")
	}
	defer func() { _ = client.Close(context.Background()) }()

	stats, err := graph.Seed(ctx, client, log, snap, graph.SeedOptions{Reset: reset})
	if err != nil {
		return err
	}
	log.Info("Graph seeded", "courses", stats.TotalCourses, "relationships", stats.TotalRelationships)

	if !profiles {
		return nil
	}
	if cfg.Reference.Driver == "" {
		return fmt.Errorf("-profiles needs REFERENCE_DRIVER and REFERENCE_DSN")
	}
	gdb, err := db.Open(cfg.Reference.Driver, cfg.Reference.DSN, log)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		return err
	}
	if err := repos.NewCourseProfileRepo(gdb, log).Upsert(ctx, nil, snap.Profiles); err != nil {
		return err
	}
	log.Info("Course profiles upserted", "count", len(snap.Profiles))
	return nil
}
