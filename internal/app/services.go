package app

import (
	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/knowledge"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/services"
)

type Services struct {
	Learning services.LearningService
}

func wireServices(log *logger.Logger, cfg *config.Config, store graph.Store, profiles *catalog.ProfileIndex) Services {
	log.Info("Wiring services...")
	return Services{
		Learning: services.NewLearningService(log, store, profilesOrEmpty(profiles), services.LearningConfig{
			MaxDepth:          cfg.Learning.MaxDepth,
			DetailConcurrency: cfg.Learning.DetailConcurrency,
			Jitter:            cfg.Recommend.Jitter,
			Thresholds: knowledge.Thresholds{
				Strength: cfg.Knowledge.StrengthThreshold,
				Weakness: cfg.Knowledge.WeaknessThreshold,
			},
		}),
	}
}
