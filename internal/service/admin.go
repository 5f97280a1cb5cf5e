package service

import (
	"context"
	"time"

	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
	"github.com/briefboard/briefboard-server/internal/util"
)

const statsDayWindow = 30 * 24 * time.Hour

type AdminService struct {
	accounts repository.AccountRepository
	briefs   repository.BriefRepository
	offers   repository.OfferRepository
	events   repository.ActivityRepository
}

func NewAdminService(
	accounts repository.AccountRepository,
	briefs repository.BriefRepository,
	offers repository.OfferRepository,
	events repository.ActivityRepository,
) *AdminService {
	return &AdminService{
		accounts: accounts,
		briefs:   briefs,
		offers:   offers,
		events:   events,
	}
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]model.Account, int, error) {
	accounts, err := s.accounts.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	total, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return accounts, total, nil
}

func (s *AdminService) SetBlocked(ctx context.Context, id int64, blocked bool) (*model.Account, error) {
	account, err := s.accounts.SetBlocked(ctx, id, blocked)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Account")
	}
	return account, nil
}

func (s *AdminService) ResetPassword(ctx context.Context, id int64, newPassword string) (*model.Account, error) {
	if len(newPassword) < passwordMinLength {
		return nil, apperrors.InvalidInput("password", "too short")
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return nil, apperrors.Internal("Failed to process credentials").WithCause(err)
	}

	account, err := s.accounts.SetPasswordHash(ctx, id, hash)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Account")
	}
	return account, nil
}

func (s *AdminService) SetRole(ctx context.Context, id int64, role model.Role) (*model.Account, error) {
	if !role.Valid() {
		return nil, apperrors.InvalidInput("role", "must be standard or administrator")
	}

	account, err := s.accounts.SetRole(ctx, id, role)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if account == nil {
		return nil, apperrors.NotFound("Account")
	}
	return account, nil
}

type AdminStats struct {
	Accounts     int                       `json:"accounts"`
	Briefs       int                       `json:"briefs"`
	Offers       int                       `json:"offers"`
	EventsByDay  []model.ActivityDayCount  `json:"eventsByDay"`
	EventsByType []model.ActivityTypeCount `json:"eventsByType"`
}

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	accounts, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	briefs, err := s.briefs.Count(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	offers, err := s.offers.Count(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	byDay, err := s.events.CountByDay(ctx, time.Now().Add(-statsDayWindow))
	if err != nil {
		return nil, apperrors.Database(err)
	}
	byType, err := s.events.CountByType(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &AdminStats{
		Accounts:     accounts,
		Briefs:       briefs,
		Offers:       offers,
		EventsByDay:  byDay,
		EventsByType: byType,
	}, nil
}
