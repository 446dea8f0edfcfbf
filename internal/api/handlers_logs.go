package api

import (
	"bytes"
	"fmt"
	"net/http"

	"worklog/adapters/excel"
	"worklog/app"
	"worklog/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleListLogs(c *gin.Context) {
	userID := caller(c).UserID
	start, end := c.Query("start"), c.Query("end")

	if start != "" || end != "" {
		logs, err := s.svc.Logs.ListRange(c.Request.Context(), userID, start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs})
		return
	}

	summary, err := s.svc.Logs.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleCreateLog(c *gin.Context) {
	var req app.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Invalid request body"))
		return
	}

	entry, err := s.svc.Logs.Create(c.Request.Context(), caller(c).UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleUpdateLog(c *gin.Context) {
	id, ok := parseID(c, "Log")
	if !ok {
		return
	}

	var req app.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Invalid request body"))
		return
	}

	entry, err := s.svc.Logs.Update(c.Request.Context(), caller(c).UserID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleDeleteLog(c *gin.Context) {
	id, ok := parseID(c, "Log")
	if !ok {
		return
	}

	if err := s.svc.Logs.Delete(c.Request.Context(), caller(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log deleted successfully"})
}

func (s *Server) handleLogStats(c *gin.Context) {
	stats, err := s.svc.Logs.Stats(c.Request.Context(), caller(c).UserID, c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// handleExport streams every log and report as an XLSX workbook. The
// workbook is buffered so a failure can still be reported as JSON.
func (s *Server) handleExport(c *gin.Context) {
	ctx := c.Request.Context()
	userID := caller(c).UserID

	logs, err := s.svc.Logs.All(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	reports, err := s.svc.Reports.List(ctx, userID, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, logs, reports); err != nil {
		respondError(c, errors.Wrap(err, "failed to build workbook"))
		return
	}

	filename := fmt.Sprintf("worklog-%s.xlsx", s.today())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// parseID reads the :id path parameter. A malformed id cannot name an
// existing row, so it is reported as not found.
func parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.NotFound(resource))
		return uuid.Nil, false
	}
	return id, true
}
