package service

import (
	"context"
	"errors"
	"fmt"

	"referral_system/internal/model"
	"referral_system/internal/repository"

	"github.com/jmoiron/sqlx"
)

const (
	ReferralRewardPoints = 5000

	// A freshly minted code can still lose the insert race to a concurrent
	// registration. Postgres aborts the whole transaction on the constraint
	// violation, so the retry re-runs the full registration scope.
	maxRegisterAttempts = 3
)

type UserService struct {
	repo     UserRepository
	notifier *ReferralNotifier
}

func NewUserService(repo UserRepository, notifier *ReferralNotifier) *UserService {
	return &UserService{
		repo:     repo,
		notifier: notifier,
	}
}

// Register creates a user with a unique referral code and, when a code is
// presented, awards ReferralRewardPoints to both inviter and invitee and
// records the referral edge. Everything runs in one transaction: on any
// failure no user, no points and no referral row persist.
func (s *UserService) Register(ctx context.Context, email, name, referralCode string) (*model.RegistrationResult, error) {
	if email == "" || name == "" {
		return nil, ErrValidation
	}

	var result *model.RegistrationResult
	var err error
	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		result, err = s.register(ctx, email, name, referralCode)
		if !errors.Is(err, repository.ErrReferralCodeExists) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrReferralCodeExists) {
			return nil, ErrCodeGenerationExhausted
		}
		return nil, err
	}

	if result.ReferralApplied {
		s.notifier.Publish(ReferralEvent{
			InviterID:   result.Inviter.ID,
			InviteeName: result.User.Name,
			PointsGiven: result.PointsGiven,
			CreatedAt:   result.User.CreatedAt,
		})
	}

	return result, nil
}

func (s *UserService) register(ctx context.Context, email, name, referralCode string) (*model.RegistrationResult, error) {
	var result *model.RegistrationResult

	err := s.repo.Transaction(ctx, func(tx *sqlx.Tx) error {
		_, err := s.repo.GetUserByEmailWithTx(ctx, tx, email)
		if err == nil {
			return ErrEmailAlreadyExists
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		code, err := generateUniqueReferralCode(ctx, func(ctx context.Context, c string) (bool, error) {
			return s.repo.ReferralCodeExistsWithTx(ctx, tx, c)
		})
		if err != nil {
			return err
		}

		newUserID, err := s.repo.InsertUserWithTx(ctx, tx, email, name, code)
		if err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		if referralCode == "" {
			user, err := s.repo.GetUserByIDWithTx(ctx, tx, newUserID)
			if err != nil {
				return err
			}
			result = &model.RegistrationResult{
				User:            user,
				ReferralApplied: false,
			}
			return nil
		}

		inviter, err := s.repo.GetUserByReferralCodeWithTx(ctx, tx, referralCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidReferralCode
			}
			return err
		}

		// Unreachable in practice: the new user's code is minted inside this
		// transaction and cannot match a pre-existing one. Kept as an
		// invariant check.
		if inviter.ID == newUserID {
			return ErrSelfReferral
		}

		if err := s.repo.AddPointsWithTx(ctx, tx, inviter.ID, ReferralRewardPoints); err != nil {
			return err
		}
		if err := s.repo.AddPointsWithTx(ctx, tx, newUserID, ReferralRewardPoints); err != nil {
			return err
		}

		// The submitted code is stored verbatim, not normalized to the
		// inviter's canonical code.
		err = s.repo.InsertReferralWithTx(ctx, tx, &model.Referral{
			InviterID:           inviter.ID,
			InviteeID:           newUserID,
			InviteeReferralCode: referralCode,
			PointsGiven:         ReferralRewardPoints,
		})
		if err != nil {
			return err
		}

		user, err := s.repo.GetUserByIDWithTx(ctx, tx, newUserID)
		if err != nil {
			return err
		}

		result = &model.RegistrationResult{
			User:            user,
			ReferralApplied: true,
			PointsGiven:     ReferralRewardPoints,
			Inviter:         &model.InviterInfo{ID: inviter.ID, Name: inviter.Name},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	user, err := s.repo.GetUserByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidReferralCode
		}
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserReferrals(ctx context.Context, inviterID int64) ([]*model.ReferralEntry, error) {
	if _, err := s.GetUserByID(ctx, inviterID); err != nil {
		return nil, err
	}

	referrals, err := s.repo.GetReferralsByInviter(ctx, inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}
	return referrals, nil
}

func (s *UserService) GetReferralStats(ctx context.Context, inviterID int64) (*model.ReferralStats, error) {
	stats, err := s.repo.GetReferralStats(ctx, inviterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get referral stats: %w", err)
	}
	return stats, nil
}
