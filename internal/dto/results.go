package dto

import "time"

type ResultsSummary struct {
	Session    ResultsSession    `json:"session"`
	Statistics ResultsStatistics `json:"statistics"`
	Results    []CandidateResult `json:"results"`
	// Winner is set only when one candidate holds a strict maximum. A shared
	// maximum is reported through Tied instead of silently picking one.
	Winner     *WinnerResult     `json:"winner,omitempty"`
	Tied       []CandidateResult `json:"tied,omitempty"`
	TotalVotes int64             `json:"totalVotes"`
}

type ResultsSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

type ResultsStatistics struct {
	TotalInvited      int64   `json:"totalInvited"`
	EmailsSent        int64   `json:"emailsSent"`
	VotesCast         int64   `json:"votesCast"`
	TurnoutPercentage float64 `json:"turnoutPercentage"`
}

type CandidateResult struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Position    int     `json:"position"`
	Votes       int64   `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

type WinnerResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
	Margin     int64   `json:"margin"`
}
