// Package ui holds the colored terminal output of the alertgraph CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"alertgraph/internal/domain"
)

// Palette
var (
	Brand  = color.New(color.FgHiBlue, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

var severityColors = map[domain.Severity]*color.Color{
	domain.SeverityLow:      color.New(color.FgCyan),
	domain.SeverityMedium:   color.New(color.FgYellow),
	domain.SeverityHigh:     color.New(color.FgRed),
	domain.SeverityCritical: color.New(color.FgHiMagenta, color.Bold),
}

// Severity renders a severity tag in its dashboard color
func Severity(s domain.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

// Table writes an aligned table. Cells may contain color codes; widths are
// computed on the visible text.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func pad(s string, width int) string {
	if n := visibleLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// visibleLen counts runes outside ANSI escape sequences
func visibleLen(s string) int {
	n, inEscape := 0, false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

// AlertTable writes an alert listing
func AlertTable(w io.Writer, alerts []domain.Alert) {
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{a.ID, Severity(a.Severity), a.Name, a.Machine, a.Program, a.OccurredOn})
	}
	Table(w, []string{"ID", "SEVERITY", "NAME", "MACHINE", "PROGRAM", "OCCURRED"}, rows)
}

// StatusIcon returns a status icon string
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon
func WarnIcon() string {
	return Warn.Sprint("⚠")
}
