package service

import (
	"context"

	"voting/internal/dto"
)

type VoteService interface {
	// Info is the read path behind the voting link: credential and window
	// checks plus the candidate list. Mutates nothing.
	Info(ctx context.Context, token string) (*dto.VotingInfoResponse, error)
	// Cast records exactly one vote for the credential's voter, or fails.
	Cast(ctx context.Context, req dto.CastVoteRequest, ip, ua string) (*dto.CastVoteResponse, error)
}
