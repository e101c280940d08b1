package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/smartpath-backend/internal/http/response"
)

type RootHandler struct {
	title   string
	version string
}

func NewRootHandler(title, version string) *RootHandler {
	return &RootHandler{title: title, version: version}
}

func (h *RootHandler) Info(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"name":        h.title,
		"version":     h.version,
		"description": "课程学习路径规划与个性化推荐",
		"endpoints": gin.H{
			"courses":   "/api/courses",
			"knowledge": "/api/knowledge",
			"health":    "/healthcheck",
			"metrics":   "/metrics",
		},
	})
}
