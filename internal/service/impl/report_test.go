package impl

import (
	"strings"
	"testing"
	"time"

	"voting/internal/dto"
)

func TestReportFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{title: "Board Election 2026", want: "Board_Election_2026_results.csv"},
		{title: "véto / späť!!", want: "v_to_sp_results.csv"},
		{title: "///", want: "session_results.csv"},
	}
	for _, tc := range cases {
		if got := ReportFilename(tc.title); got != tc.want {
			t.Fatalf("ReportFilename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func baseSummary() *dto.ResultsSummary {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &dto.ResultsSummary{
		Session: dto.ResultsSession{
			Title:     "Board Election",
			Status:    "closed",
			StartTime: now,
			EndTime:   now.Add(2 * time.Hour),
		},
		Statistics: dto.ResultsStatistics{TotalInvited: 4, EmailsSent: 4, VotesCast: 3, TurnoutPercentage: 75.0},
		Results: []dto.CandidateResult{
			{Name: "Alice", Position: 1, Votes: 2, Percentage: 66.7},
			{Name: "Bob", Position: 2, Votes: 1, Percentage: 33.3},
		},
		TotalVotes: 3,
	}
}

func TestRenderResultsCSVWinner(t *testing.T) {
	s := baseSummary()
	s.Winner = &dto.WinnerResult{Name: "Alice", Votes: 2, Percentage: 66.7, Margin: 1}

	out := RenderResultsCSV(s)
	for _, want := range []string{
		"Election: Board Election",
		"Turnout: 75.0%",
		"Position,Candidate Name,Votes,Percentage",
		`1,"Alice",2,66.7%`,
		"Winner: Alice",
		"Margin: 1 votes",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResultsCSVTieAndEmpty(t *testing.T) {
	s := baseSummary()
	s.Tied = []dto.CandidateResult{
		{Name: "Alice", Votes: 2},
		{Name: "Bob", Votes: 2},
	}
	out := RenderResultsCSV(s)
	if !strings.Contains(out, "Result: tie") || !strings.Contains(out, "Tied Candidates: Alice, Bob") {
		t.Fatalf("tie block missing:\n%s", out)
	}
	if strings.Contains(out, "Winner:") {
		t.Fatalf("tie report must not name a winner:\n%s", out)
	}

	empty := baseSummary()
	empty.TotalVotes = 0
	if out := RenderResultsCSV(empty); !strings.Contains(out, "No votes cast yet") {
		t.Fatalf("empty report missing no-votes block:\n%s", out)
	}
}
