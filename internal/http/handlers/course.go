package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	"github.com/yungbote/smartpath-backend/internal/http/response"
	"github.com/yungbote/smartpath-backend/internal/modules/learning/planner"
	"github.com/yungbote/smartpath-backend/internal/platform/apierr"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
	"github.com/yungbote/smartpath-backend/internal/services"
)

type CourseHandler struct {
	log      *logger.Logger
	learning services.LearningService
}

func NewCourseHandler(log *logger.Logger, learning services.LearningService) *CourseHandler {
	return &CourseHandler{
		log:      log.With("handler", "CourseHandler"),
		learning: learning,
	}
}

type SearchRequest struct {
	Keyword    string `json:"keyword" binding:"required"`
	SearchType string `json:"search_type"`
}

type PrerequisiteRequest struct {
	CourseID *int64 `json:"course_id" binding:"required"`
	MaxDepth *int   `json:"max_depth"`
}

type LearningPathRequest struct {
	TargetCourseID   *int64  `json:"target_course_id" binding:"required"`
	CompletedCourses []int64 `json:"completed_courses"`
}

// DifficultyRequest names the course by id or by label; the id wins when both are set.
type DifficultyRequest struct {
	CourseID       *int64             `json:"course_id"`
	CourseName     string             `json:"course_name"`
	KnowledgeState map[string]float64 `json:"knowledge_state"`
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.learning.ListCourses(c.Request.Context())
	if err != nil {
		h.fail(c, "ListCourses", err)
		return
	}
	response.RespondOK(c, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondAPIError(c, apierr.InvalidArgument(fmt.Errorf("invalid course id %q", c.Param("id"))))
		return
	}
	course, err := h.learning.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "GetCourse", err, "course_id", id)
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !bind(c, &req) {
		return
	}
	courses, err := h.learning.SearchCourses(c.Request.Context(), req.Keyword, req.SearchType)
	if err != nil {
		h.fail(c, "Search", err, "keyword", req.Keyword)
		return
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	response.RespondOK(c, gin.H{"courses": courses, "total": len(courses)})
}

func (h *CourseHandler) PrerequisitePaths(c *gin.Context) {
	var req PrerequisiteRequest
	if !bind(c, &req) {
		return
	}
	depth := planner.DefaultMaxDepth
	if req.MaxDepth != nil {
		depth = *req.MaxDepth
	}
	out, err := h.learning.FindPrerequisitePaths(c.Request.Context(), *req.CourseID, depth)
	if err != nil {
		h.fail(c, "PrerequisitePaths", err, "course_id", *req.CourseID, "max_depth", depth)
		return
	}
	response.RespondOK(c, out)
}

func (h *CourseHandler) LearningPath(c *gin.Context) {
	var req LearningPathRequest
	if !bind(c, &req) {
		return
	}
	out, err := h.learning.PlanLearningPath(c.Request.Context(), *req.TargetCourseID, req.CompletedCourses)
	if err != nil {
		h.fail(c, "LearningPath", err, "target_course_id", *req.TargetCourseID)
		return
	}
	response.RespondOK(c, out)
}

func (h *CourseHandler) Stats(c *gin.Context) {
	st, err := h.learning.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "Stats", err)
		return
	}
	response.RespondOK(c, st)
}

func (h *CourseHandler) Difficulty(c *gin.Context) {
	var req DifficultyRequest
	if !bind(c, &req) {
		return
	}
	v := catalog.KnowledgeVector(req.KnowledgeState)
	name := strings.TrimSpace(req.CourseName)
	switch {
	case req.CourseID != nil:
		a, err := h.learning.ComputeDifficultyForCourse(c.Request.Context(), *req.CourseID, v)
		if err != nil {
			h.fail(c, "Difficulty", err, "course_id", *req.CourseID)
			return
		}
		response.RespondOK(c, gin.H{"course_id": *req.CourseID, "difficulty_score": a.Score, "difficulty_label": a.Label})
	case name != "":
		a := h.learning.ComputeDifficulty(name, v)
		response.RespondOK(c, gin.H{"course_name": name, "difficulty_score": a.Score, "difficulty_label": a.Label})
	default:
		response.RespondAPIError(c, apierr.InvalidArgument(fmt.Errorf("course_id or course_name is required")))
	}
}

func (h *CourseHandler) fail(c *gin.Context, op string, err error, kv ...interface{}) {
	fields := append([]interface{}{"op", op, "error", err}, kv...)
	if apierr.Status(err) >= http.StatusInternalServerError {
		h.log.Error("Course request failed", fields...)
	} else {
		h.log.Debug("Course request rejected", fields...)
	}
	response.RespondAPIError(c, err)
}

// bind decodes the JSON body into req and writes a 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.RespondAPIError(c, apierr.InvalidArgument(fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}
