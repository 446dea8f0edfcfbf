package main

import (
	"fmt"
	"strings"

	"worklog/app"
	"worklog/internal/errors"
	"worklog/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func cell(width int, s string) string {
	if r := []rune(s); len(r) > width-1 {
		s = string(r[:width-2]) + "…"
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func renderReports(reports []models.Report) string {
	if len(reports) == 0 {
		return mutedStyle.Render("no reports")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(cell(38, "ID") + cell(24, "TITLE") + cell(25, "PERIOD") + cell(20, "GENERATED")))
	for _, r := range reports {
		period := r.StartDate.UTC().Format("2006-01-02") + " → " + r.EndDate.UTC().Format("2006-01-02")
		b.WriteString("\n")
		b.WriteString(cell(38, r.ID.String()) + cell(24, r.Title) + cell(25, period) + cell(20, r.GeneratedAt.UTC().Format("2006-01-02 15:04")))
	}
	return b.String()
}

func renderCooldown(userID string, status app.CooldownStatus) string {
	if status.Eligible {
		return okStyle.Render(fmt.Sprintf("%s can generate a report now", userID))
	}
	return warnStyle.Render(fmt.Sprintf("%s can generate a new report in %d day(s)", userID, status.DaysLeft))
}

func renderImport(result importResult) string {
	var b strings.Builder
	b.WriteString(okStyle.Render(fmt.Sprintf("imported %d log(s)", result.Imported)))
	for _, f := range result.Failed {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("line %d: %s", f.Line, errors.PublicMessage(f.Err))))
	}
	return b.String()
}
