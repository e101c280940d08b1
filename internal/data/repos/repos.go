package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

// CourseProfileRecord is the SQL row behind a catalog.CourseProfile. The IRT columns are
// nullable together: a row with either one NULL has no calibrated parameters.
type CourseProfileRecord struct {
	CourseID       int64          `gorm:"column:course_id;primaryKey;autoIncrement:false"`
	Label          string         `gorm:"column:label;not null;index"`
	Domains        datatypes.JSON `gorm:"column:domains"`
	BaseDifficulty *float64       `gorm:"column:base_difficulty"`
	Discrimination *float64       `gorm:"column:discrimination"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (CourseProfileRecord) TableName() string { return "course_profile" }

type CourseProfileRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]catalog.CourseProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, profiles []catalog.CourseProfile) error
}

type courseProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProfileRepo(db *gorm.DB, baseLog *logger.Logger) CourseProfileRepo {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &courseProfileRepo{db: db, log: baseLog.With("repo", "CourseProfileRepo")}
}

func (r *courseProfileRepo) List(ctx context.Context, tx *gorm.DB) ([]catalog.CourseProfile, error) {
	txx := tx
	if txx == nil {
		txx = r.db
	}
	var rows []CourseProfileRecord
	if err := txx.WithContext(ctx).Order("course_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.CourseProfile, 0, len(rows))
	for _, row := range rows {
		p := catalog.CourseProfile{CourseID: row.CourseID, Label: row.Label, Domains: []string{}}
		if len(row.Domains) > 0 {
			if err := json.Unmarshal(row.Domains, &p.Domains); err != nil {
				return nil, fmt.Errorf("course_profile %d: decode domains: %w", row.CourseID, err)
			}
		}
		if row.BaseDifficulty != nil && row.Discrimination != nil {
			p.IRT = &catalog.IRTParams{BaseDifficulty: *row.BaseDifficulty, Discrimination: *row.Discrimination}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *courseProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profiles []catalog.CourseProfile) error {
	txx := tx
	if txx == nil {
		txx = r.db
	}
	if len(profiles) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]CourseProfileRecord, 0, len(profiles))
	for _, p := range profiles {
		domains := p.Domains
		if domains == nil {
			domains = []string{}
		}
		raw, err := json.Marshal(domains)
		if err != nil {
			return err
		}
		row := CourseProfileRecord{
			CourseID:  p.CourseID,
			Label:     p.Label,
			Domains:   datatypes.JSON(raw),
			UpdatedAt: now,
		}
		if p.IRT != nil {
			b, d := p.IRT.BaseDifficulty, p.IRT.Discrimination
			row.BaseDifficulty, row.Discrimination = &b, &d
		}
		rows = append(rows, row)
	}
	return txx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}},
		UpdateAll: true,
	}).Create(&rows).Error
}
