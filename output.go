package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	modrelease "github.com/bcomnes/modrelease/pkg"
)

var (
	styleCheck = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleDim   = lipgloss.NewStyle().Faint(true)
)

// newLogger returns the progress logger. Verbose output adds debug
// messages and timestamps.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
	})
}

func formatSummary(meta modrelease.ReleaseMeta, dryRun bool) string {
	verb := "Released"
	if dryRun {
		verb = "Would release"
	}
	line := styleCheck.Render("✔") + " " + verb + " " + styleTag.Render(meta.NewTag)
	if meta.Previous != "" {
		line += styleDim.Render(" (previous " + meta.Previous + ")")
	}
	return line
}
