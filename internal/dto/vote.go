package dto

import "time"

type CastVoteRequest struct {
	Token       string `json:"token"`
	CandidateID string `json:"candidateId"`
}

type CastVoteResponse struct {
	VerificationCode string         `json:"verificationCode"`
	Timestamp        time.Time      `json:"timestamp"`
	Session          SessionSummary `json:"session"`
}

type SessionSummary struct {
	Title   string    `json:"title"`
	EndTime time.Time `json:"endTime"`
}

type VotingInfoResponse struct {
	Session    VotingInfoSession   `json:"session"`
	Candidates []CandidateResponse `json:"candidates"`
	Voter      VoterIdentity       `json:"voter"`
}

type VotingInfoSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EndTime     time.Time `json:"endTime"`
}

type VoterIdentity struct {
	Email string `json:"email"`
}
