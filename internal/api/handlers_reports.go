package api

import (
	"net/http"
	"strconv"

	"worklog/app"
	"worklog/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func (s *Server) handleGenerateReport(c *gin.Context) {
	var req app.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	userID := caller(c).UserID

	result, err := s.svc.Reports.Generate(ctx, userID, req)
	if err != nil {
		if errors.Is(err, errors.CodeRateLimited) {
			body := gin.H{"message": errors.PublicMessage(err)}
			if status, cerr := s.svc.Reports.Cooldown(ctx, userID); cerr == nil {
				body["daysLeft"] = status.DaysLeft
			}
			c.JSON(http.StatusTooManyRequests, body)
			return
		}
		respondError(c, err)
		return
	}

	if result.Report == nil {
		c.JSON(http.StatusOK, gin.H{"message": result.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   result.Report.Content,
		"reportId": result.Report.ID,
	})
}

func (s *Server) handleListReports(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, errors.ValidationError("Invalid limit"))
			return
		}
		limit = n
	}

	reports, err := s.svc.Reports.List(c.Request.Context(), caller(c).UserID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleGetReport(c *gin.Context) {
	id, ok := parseID(c, "Report")
	if !ok {
		return
	}

	report, err := s.svc.Reports.Get(c.Request.Context(), caller(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", RenderReportHTML(report.Content))
		return
	}
	c.JSON(http.StatusOK, report)
}

// RenderReportHTML converts report text to HTML. Raw HTML in the source
// is dropped.
func RenderReportHTML(content string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(content))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML,
	})
	return markdown.Render(doc, renderer)
}
