package service

import (
	"context"

	"voting/internal/domain"
	"voting/internal/dto"
)

type TallyService interface {
	Results(ctx context.Context, sessionID domain.SessionID) (*dto.ResultsSummary, error)
}
