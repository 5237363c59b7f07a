package domain

import "github.com/google/uuid"

type SessionID = uuid.UUID
type CandidateID = uuid.UUID
type VoterID = uuid.UUID
type VoteID = uuid.UUID
