// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/daniel/jobtrackr/internal/analytics"
	"github.com/daniel/jobtrackr/internal/reminder"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted output for the status and sweep commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQueueStatus outputs a human-readable summary of the reminder queue.
func (p *Printer) PrintQueueStatus(status reminder.QueueStatus) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total jobs:   %d\n", status.Total))
	sb.WriteString(fmt.Sprintf("Due now:      %d\n", status.Due))
	sb.WriteString(fmt.Sprintf("Pending:      %d\n", status.Pending))

	if len(status.ByKind) > 0 {
		sb.WriteString("\nBy kind:\n")
		kinds := make([]string, 0, len(status.ByKind))
		for kind := range status.ByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			sb.WriteString(fmt.Sprintf("  %-14s %d\n", kind, status.ByKind[kind]))
		}
	}

	p.printBox("REMINDER QUEUE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs a human-readable summary of one user's job search.
func (p *Printer) PrintStats(stats *analytics.Stats) {
	if stats == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Applications: %d\n", stats.TotalApplications))
	if len(stats.ByStatus) > 0 {
		statuses := make([]string, 0, len(stats.ByStatus))
		for status := range stats.ByStatus {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			sb.WriteString(fmt.Sprintf("  %-14s %d\n", status, stats.ByStatus[status]))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Interviews:   %d (%d upcoming)\n", stats.TotalInterviews, stats.UpcomingInterviews))
	sb.WriteString(fmt.Sprintf("Interview rate: %.0f%%\n", stats.InterviewRate*100))
	sb.WriteString(fmt.Sprintf("Offer rate:     %.0f%%\n", stats.OfferRate*100))
	if stats.AvgDaysToFirstInterview != nil {
		sb.WriteString(fmt.Sprintf("Avg days to first interview: %.1f\n", *stats.AvgDaysToFirstInterview))
	}

	p.printBox("JOB SEARCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
