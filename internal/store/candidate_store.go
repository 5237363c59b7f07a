package store

import (
	"context"
	"errors"

	"voting/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateStore struct{ db *gorm.DB }

func (s *Store) Candidates() *CandidateStore { return &CandidateStore{s.DB} }

func (cs *CandidateStore) Create(ctx context.Context, c *domain.Candidate) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return cs.db.WithContext(ctx).Create(c).Error
}

func (cs *CandidateStore) GetByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	var c domain.Candidate
	if err := cs.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetActive resolves a candidate only when it belongs to the session and has
// not been soft-deleted; the session scoping is what stops a credential for
// one session being spent on another session's candidate.
func (cs *CandidateStore) GetActive(ctx context.Context, id domain.CandidateID, sessionID domain.SessionID) (*domain.Candidate, error) {
	var c domain.Candidate
	err := cs.db.WithContext(ctx).
		First(&c, "id = ? AND voting_session_id = ? AND is_active = ?", id, sessionID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (cs *CandidateStore) ListActive(ctx context.Context, sessionID domain.SessionID) ([]domain.Candidate, error) {
	var out []domain.Candidate
	err := cs.db.WithContext(ctx).
		Where("voting_session_id = ? AND is_active = ?", sessionID, true).
		Order("position ASC, name ASC").
		Find(&out).Error
	return out, err
}

func (cs *CandidateStore) CountActive(ctx context.Context, sessionID domain.SessionID) (int64, error) {
	var n int64
	err := cs.db.WithContext(ctx).
		Model(&domain.Candidate{}).
		Where("voting_session_id = ? AND is_active = ?", sessionID, true).
		Count(&n).Error
	return n, err
}

func (cs *CandidateStore) MaxPosition(ctx context.Context, sessionID domain.SessionID) (int, error) {
	var max *int
	err := cs.db.WithContext(ctx).
		Model(&domain.Candidate{}).
		Where("voting_session_id = ? AND is_active = ?", sessionID, true).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

// Update applies only the fields present in the partial update.
func (cs *CandidateStore) Update(ctx context.Context, id domain.CandidateID, u domain.CandidateUpdate) (int64, error) {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Position != nil {
		cols["position"] = *u.Position
	}
	if len(cols) == 0 {
		return 0, nil
	}
	tx := cs.db.WithContext(ctx).
		Model(&domain.Candidate{}).
		Where("id = ?", id).
		Updates(cols)
	return tx.RowsAffected, tx.Error
}

func (cs *CandidateStore) Deactivate(ctx context.Context, id domain.CandidateID) (int64, error) {
	tx := cs.db.WithContext(ctx).
		Model(&domain.Candidate{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return tx.RowsAffected, tx.Error
}
