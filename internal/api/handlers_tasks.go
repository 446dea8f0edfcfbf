package api

import (
	"net/http"

	"worklog/app"
	"worklog/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.svc.Tasks.List(c.Request.Context(), caller(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req app.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Invalid request body"))
		return
	}

	task, err := s.svc.Tasks.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "Task")
	if !ok {
		return
	}

	var req app.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Invalid request body"))
		return
	}

	task, err := s.svc.Tasks.Update(c.Request.Context(), caller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "Task")
	if !ok {
		return
	}

	if err := s.svc.Tasks.Delete(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// handleCompleteTask completes a task with logged details; success has no body
func (s *Server) handleCompleteTask(c *gin.Context) {
	id, ok := parseID(c, "Task")
	if !ok {
		return
	}

	var req app.CompleteTaskRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errors.InvalidInput("Invalid request body"))
			return
		}
	}

	if _, _, err := s.svc.Tasks.Complete(c.Request.Context(), caller(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
