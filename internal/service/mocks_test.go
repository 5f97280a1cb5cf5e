package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/briefboard/briefboard-server/internal/database"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
)

// fakeTxer satisfies database.Txer without a database: the callback runs
// against a nil transaction, which the mock repositories ignore.
type fakeTxer struct{}

func (fakeTxer) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindByHandle(ctx context.Context, handle string) (*model.Account, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) RecordLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepo) SetBlocked(ctx context.Context, id int64, blocked bool) (*model.Account, error) {
	args := m.Called(ctx, id, blocked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) SetPasswordHash(ctx context.Context, id int64, hash string) (*model.Account, error) {
	args := m.Called(ctx, id, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) SetRole(ctx context.Context, id int64, role model.Role) (*model.Account, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepo) WithTx(tx *sqlx.Tx) repository.AccountRepository {
	return m
}

type mockBriefRepo struct {
	mock.Mock
}

func (m *mockBriefRepo) Create(ctx context.Context, params model.CreateBriefParams) (*model.Brief, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brief), args.Error(1)
}

func (m *mockBriefRepo) FindByID(ctx context.Context, id int64) (*model.Brief, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brief), args.Error(1)
}

func (m *mockBriefRepo) FindByToken(ctx context.Context, token string) (*model.Brief, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Brief), args.Error(1)
}

func (m *mockBriefRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.BriefWithOfferCount, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BriefWithOfferCount), args.Error(1)
}

func (m *mockBriefRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockBriefRepo) WithTx(tx *sqlx.Tx) repository.BriefRepository {
	return m
}

type mockOfferRepo struct {
	mock.Mock
}

func (m *mockOfferRepo) Create(ctx context.Context, params model.CreateOfferParams) (*model.Offer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *mockOfferRepo) FindByID(ctx context.Context, id int64) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *mockOfferRepo) FindWithBrief(ctx context.Context, id int64) (*model.OfferWithBrief, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OfferWithBrief), args.Error(1)
}

func (m *mockOfferRepo) FindOwnersByIDs(ctx context.Context, ids []int64) ([]model.OfferOwner, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferOwner), args.Error(1)
}

func (m *mockOfferRepo) ListByBrief(ctx context.Context, briefID int64) ([]model.Offer, error) {
	args := m.Called(ctx, briefID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *mockOfferRepo) SetStatus(ctx context.Context, id int64, status model.OfferStatus) (*model.Offer, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *mockOfferRepo) SetStatusMany(ctx context.Context, ids []int64, status model.OfferStatus) ([]model.Offer, error) {
	args := m.Called(ctx, ids, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *mockOfferRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOfferRepo) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOfferRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockOfferRepo) WithTx(tx *sqlx.Tx) repository.OfferRepository {
	return m
}

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) Create(ctx context.Context, params model.CreateActivityEventParams) (*model.ActivityEvent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ActivityEvent), args.Error(1)
}

func (m *mockActivityRepo) CountByDay(ctx context.Context, since time.Time) ([]model.ActivityDayCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityDayCount), args.Error(1)
}

func (m *mockActivityRepo) CountByType(ctx context.Context) ([]model.ActivityTypeCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityTypeCount), args.Error(1)
}

func (m *mockActivityRepo) WithTx(tx *sqlx.Tx) repository.ActivityRepository {
	return m
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func someTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// newTestActivityService records into a permissive mock so service tests do
// not have to care about activity side effects.
func newTestActivityService() *ActivityService {
	events := &mockActivityRepo{}
	events.On("Create", mock.Anything, mock.Anything).Return(&model.ActivityEvent{}, nil).Maybe()
	return NewActivityService(events)
}
