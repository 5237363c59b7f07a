package dto

import "time"

type CreateSessionRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	DurationHours int        `json:"durationHours,omitempty"`
	StartTime     *time.Time `json:"startTime,omitempty"`
	EndTime       *time.Time `json:"endTime,omitempty"`
}

type SessionResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	TotalInvited int       `json:"totalInvited"`
	EmailsSent   int       `json:"emailsSent"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SessionOverviewResponse struct {
	SessionResponse
	CandidateCount int64 `json:"candidateCount"`
	VoterCount     int64 `json:"voterCount"`
	VoteCount      int64 `json:"voteCount"`
}
