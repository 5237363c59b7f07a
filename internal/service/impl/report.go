package impl

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"voting/internal/dto"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ReportFilename derives a safe attachment name from a session title.
func ReportFilename(title string) string {
	base := unsafeFilenameChars.ReplaceAllString(title, "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "session"
	}
	return base + "_results.csv"
}

// RenderResultsCSV writes the downloadable results report: session header,
// statistics block, per-candidate rows, and the winner-or-tie block.
func RenderResultsCSV(s *dto.ResultsSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Election Results\n\n")
	fmt.Fprintf(&b, "Election: %s\n", s.Session.Title)
	if s.Session.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", s.Session.Description)
	}
	fmt.Fprintf(&b, "Status: %s\n", s.Session.Status)
	fmt.Fprintf(&b, "Start Time: %s\n", s.Session.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&b, "End Time: %s\n\n", s.Session.EndTime.Format(time.RFC3339))

	fmt.Fprintf(&b, "Voting Statistics\n")
	fmt.Fprintf(&b, "Total Invited: %d\n", s.Statistics.TotalInvited)
	fmt.Fprintf(&b, "Emails Sent: %d\n", s.Statistics.EmailsSent)
	fmt.Fprintf(&b, "Votes Cast: %d\n", s.Statistics.VotesCast)
	fmt.Fprintf(&b, "Turnout: %.1f%%\n\n", s.Statistics.TurnoutPercentage)

	fmt.Fprintf(&b, "Candidate Results\n")
	fmt.Fprintf(&b, "Position,Candidate Name,Votes,Percentage\n")
	for _, r := range s.Results {
		fmt.Fprintf(&b, "%d,%q,%d,%.1f%%\n", r.Position, r.Name, r.Votes, r.Percentage)
	}
	b.WriteString("\n")

	switch {
	case s.Winner != nil:
		fmt.Fprintf(&b, "Election Winner\n")
		fmt.Fprintf(&b, "Winner: %s\n", s.Winner.Name)
		fmt.Fprintf(&b, "Votes: %d\n", s.Winner.Votes)
		fmt.Fprintf(&b, "Percentage: %.1f%%\n", s.Winner.Percentage)
		fmt.Fprintf(&b, "Margin: %d votes\n", s.Winner.Margin)
	case len(s.Tied) > 0:
		fmt.Fprintf(&b, "Result: tie\n")
		names := make([]string, len(s.Tied))
		for i, t := range s.Tied {
			names[i] = t.Name
		}
		fmt.Fprintf(&b, "Tied Candidates: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(&b, "Votes Each: %d\n", s.Tied[0].Votes)
	default:
		fmt.Fprintf(&b, "No votes cast yet\n")
	}

	fmt.Fprintf(&b, "\nReport Generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	return b.String()
}
