package service

import (
	"context"
	"errors"

	"referral_system/internal/model"

	"github.com/jmoiron/sqlx"
)

var (
	ErrValidation              = errors.New("email and name are required")
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrInvalidReferralCode     = errors.New("invalid referral code")
	ErrSelfReferral            = errors.New("cannot use your own referral code")
	ErrCodeGenerationExhausted = errors.New("failed to generate a unique referral code")
	ErrUserNotFound            = errors.New("user not found")
)

type UserServiceI interface {
	Register(ctx context.Context, email, name, referralCode string) (*model.RegistrationResult, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	GetUserReferrals(ctx context.Context, inviterID int64) ([]*model.ReferralEntry, error)
	GetReferralStats(ctx context.Context, inviterID int64) (*model.ReferralStats, error)
}

type UserRepository interface {
	Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error

	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	GetReferralsByInviter(ctx context.Context, inviterID int64) ([]*model.ReferralEntry, error)
	GetReferralStats(ctx context.Context, inviterID int64) (*model.ReferralStats, error)

	GetUserByIDWithTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.User, error)
	GetUserByEmailWithTx(ctx context.Context, tx *sqlx.Tx, email string) (*model.User, error)
	GetUserByReferralCodeWithTx(ctx context.Context, tx *sqlx.Tx, code string) (*model.User, error)
	ReferralCodeExistsWithTx(ctx context.Context, tx *sqlx.Tx, code string) (bool, error)
	InsertUserWithTx(ctx context.Context, tx *sqlx.Tx, email, name, referralCode string) (int64, error)
	AddPointsWithTx(ctx context.Context, tx *sqlx.Tx, userID int64, points int) error
	InsertReferralWithTx(ctx context.Context, tx *sqlx.Tx, ref *model.Referral) error
}
