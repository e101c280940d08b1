package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/http/response"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/recommend"
	"github.com/yungbote/smartpath-backend/internal/platform/apierr"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/services"
)

type KnowledgeHandler struct {
	log        *logger.Logger
	learning   services.LearningService
	defaultMax int
	now        func() time.Time
}

func NewKnowledgeHandler(log *logger.Logger, learning services.LearningService, defaultMax int) *KnowledgeHandler {
	if defaultMax <= 0 {
		defaultMax = 5
	}
	return &KnowledgeHandler{
		log:        log.With("handler", "KnowledgeHandler"),
		learning:   learning,
		defaultMax: defaultMax,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type KnowledgeStateRequest struct {
	StudentID    string             `json:"student_id" binding:"required"`
	CourseScores map[string]float64 `json:"course_scores" binding:"required"`
}

type KnowledgeStateResponse struct {
	StudentID       string                  `json:"student_id"`
	KnowledgeVector catalog.KnowledgeVector `json:"knowledge_vector"`
	OverallLevel    float64                 `json:"overall_level"`
	Strengths       []string                `json:"strengths"`
	Weaknesses      []string                `json:"weaknesses"`
	CalculatedAt    time.Time               `json:"calculated_at"`
}

type RecommendRequest struct {
	StudentID          string             `json:"student_id" binding:"required"`
	KnowledgeState     map[string]float64 `json:"knowledge_state"`
	CompletedCourses   []int64            `json:"completed_courses"`
	MaxRecommendations *int               `json:"max_recommendations"`
	Seed               *int64             `json:"seed"`
}

type RecommendResponse struct {
	StudentID       string                     `json:"student_id"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

func (h *KnowledgeHandler) State(c *gin.Context) {
	var req KnowledgeStateRequest
	if !bind(c, &req) {
		return
	}
	v := h.learning.EstimateKnowledge(req.CourseScores)
	a := h.learning.AnalyzeKnowledge(v)
	response.RespondOK(c, KnowledgeStateResponse{
		StudentID:       req.StudentID,
		KnowledgeVector: v,
		OverallLevel:    a.OverallLevel,
		Strengths:       a.Strengths,
		Weaknesses:      a.Weaknesses,
		CalculatedAt:    h.now(),
	})
}

func (h *KnowledgeHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if !bind(c, &req) {
		return
	}
	limit := h.defaultMax
	if req.MaxRecommendations != nil {
		limit = *req.MaxRecommendations
	}
	recs, err := h.learning.Recommend(c.Request.Context(), services.RecommendInput{
		Vector:     catalog.KnowledgeVector(req.KnowledgeState),
		Completed:  req.CompletedCourses,
		MaxResults: limit,
		Seed:       req.Seed,
	})
	if err != nil {
		if apierr.Status(err) >= http.StatusInternalServerError {
			h.log.Error("Recommend failed", "error", err, "student_id", req.StudentID)
		}
		response.RespondAPIError(c, err)
		return
	}
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	response.RespondOK(c, RecommendResponse{
		StudentID:       req.StudentID,
		Recommendations: recs,
		GeneratedAt:     h.now(),
	})
}

func (h *KnowledgeHandler) Domains(c *gin.Context) {
	domains := h.learning.Domains()
	response.RespondOK(c, gin.H{"domains": domains, "total": len(domains)})
}
