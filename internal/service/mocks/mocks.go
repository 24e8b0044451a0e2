package mocks

import (
	"context"

	"referral_system/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

// Transaction runs the callback directly with a nil handle; the mocked
// tx-scoped methods ignore it. The callback's error stands in for rollback.
func (m *MockUserRepository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	return t(nil)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetReferralsByInviter(ctx context.Context, inviterID int64) ([]*model.ReferralEntry, error) {
	args := m.Called(ctx, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ReferralEntry), args.Error(1)
}

func (m *MockUserRepository) GetReferralStats(ctx context.Context, inviterID int64) (*model.ReferralStats, error) {
	args := m.Called(ctx, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferralStats), args.Error(1)
}

func (m *MockUserRepository) GetUserByIDWithTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmailWithTx(ctx context.Context, tx *sqlx.Tx, email string) (*model.User, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByReferralCodeWithTx(ctx context.Context, tx *sqlx.Tx, code string) (*model.User, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ReferralCodeExistsWithTx(ctx context.Context, tx *sqlx.Tx, code string) (bool, error) {
	args := m.Called(ctx, tx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) InsertUserWithTx(ctx context.Context, tx *sqlx.Tx, email, name, referralCode string) (int64, error) {
	args := m.Called(ctx, tx, email, name, referralCode)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) AddPointsWithTx(ctx context.Context, tx *sqlx.Tx, userID int64, points int) error {
	args := m.Called(ctx, tx, userID, points)
	return args.Error(0)
}

func (m *MockUserRepository) InsertReferralWithTx(ctx context.Context, tx *sqlx.Tx, ref *model.Referral) error {
	args := m.Called(ctx, tx, ref)
	return args.Error(0)
}
