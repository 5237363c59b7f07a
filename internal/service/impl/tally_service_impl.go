package impl

import (
	"context"
	"errors"
	"fmt"
	"math"

	"voting/internal/domain"
	"voting/internal/dto"
	"voting/internal/store"
)

type TallyServiceImpl struct {
	store *store.Store
}

func NewTallyServiceImpl(st *store.Store) *TallyServiceImpl {
	return &TallyServiceImpl{store: st}
}

// Results aggregates the vote ledger for one session: per-candidate counts
// (zero-vote candidates included), percentages to one decimal, turnout, and
// winner determination. A shared maximum is reported as an explicit tie set
// rather than an arbitrary pick.
func (t *TallyServiceImpl) Results(ctx context.Context, sessionID domain.SessionID) (*dto.ResultsSummary, error) {
	sess, err := t.store.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	candidates, err := t.store.Candidates().ListActive(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	counts, err := t.store.Votes().CountsByCandidate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	var totalVotes int64
	for _, c := range candidates {
		totalVotes += counts[c.ID]
	}

	results := make([]dto.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		n := counts[c.ID]
		results = append(results, dto.CandidateResult{
			ID:          c.ID.String(),
			Name:        c.Name,
			Description: c.Description,
			Position:    c.Position,
			Votes:       n,
			Percentage:  percentage(n, totalVotes),
		})
	}

	stats, err := t.store.Voters().Stats(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	summary := &dto.ResultsSummary{
		Session: dto.ResultsSession{
			ID:          sess.ID.String(),
			Title:       sess.Title,
			Description: sess.Description,
			Status:      string(sess.Status),
			StartTime:   sess.StartTime,
			EndTime:     sess.EndTime,
		},
		Statistics: dto.ResultsStatistics{
			TotalInvited:      stats.TotalInvited,
			EmailsSent:        stats.EmailsSent,
			VotesCast:         stats.VotesCast,
			TurnoutPercentage: percentage(stats.VotesCast, stats.TotalInvited),
		},
		Results:    results,
		TotalVotes: totalVotes,
	}

	if totalVotes > 0 {
		summary.Winner, summary.Tied = determineWinner(results)
	}
	return summary, nil
}

// determineWinner returns either a sole winner with its margin, or the tie
// set when the maximum is shared.
func determineWinner(results []dto.CandidateResult) (*dto.WinnerResult, []dto.CandidateResult) {
	var max int64 = -1
	for _, r := range results {
		if r.Votes > max {
			max = r.Votes
		}
	}

	var top []dto.CandidateResult
	for _, r := range results {
		if r.Votes == max {
			top = append(top, r)
		}
	}
	if len(top) != 1 {
		return nil, top
	}

	// Margin against the best of the rest; a sole candidate wins by its own
	// full count.
	var second int64
	for _, r := range results {
		if r.Votes < max && r.Votes > second {
			second = r.Votes
		}
	}
	w := top[0]
	return &dto.WinnerResult{
		ID:         w.ID,
		Name:       w.Name,
		Votes:      w.Votes,
		Percentage: w.Percentage,
		Margin:     w.Votes - second,
	}, nil
}

// percentage rounds part/total to one decimal place; 0.0 when total is zero.
func percentage(part, total int64) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
