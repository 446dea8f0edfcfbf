package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCalendarEvents(c *gin.Context) {
	events, err := s.svc.Calendar.MonthEvents(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// handleCalendarStatus always answers 200; the body says what is wrong
func (s *Server) handleCalendarStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Calendar.Status(c.Request.Context(), caller(c)))
}
