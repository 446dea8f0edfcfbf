package api

import (
	"net/http"
	"time"

	"worklog/internal/errors"

	"github.com/gin-gonic/gin"
)

const usageWindowDays = 30

type updateNameRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleUpdateName(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil {
		respondError(c, errors.ValidationError("Invalid name"))
		return
	}

	user, err := s.svc.Users.SetName(c.Request.Context(), caller(c).UserID, *req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Name updated successfully", "user": user})
}

func (s *Server) handleMe(c *gin.Context) {
	profile, err := s.svc.Users.Profile(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUsage(c *gin.Context) {
	if s.svc.Usage == nil {
		c.JSON(http.StatusOK, gin.H{"windowDays": usageWindowDays, "summary": nil})
		return
	}

	summary, err := s.svc.Usage.LastDays(c.Request.Context(), caller(c).UserID, usageWindowDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"windowDays":  usageWindowDays,
		"generatedAt": s.svc.Now().UTC().Format(time.RFC3339),
		"summary":     summary,
	})
}
