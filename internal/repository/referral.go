package repository

import (
	"context"
	"fmt"
	"time"

	"referral_system/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type referralEntry struct {
	ReferralID          int64     `db:"id"`
	InviteeID           int64     `db:"invitee_id"`
	InviteeName         string    `db:"invitee_name"`
	InviteeEmail        string    `db:"invitee_email"`
	InviteeReferralCode string    `db:"invitee_referral_code"`
	PointsGiven         int       `db:"points_given"`
	CreatedAt           time.Time `db:"created_at"`
}

// InsertReferralWithTx records the inviter->invitee edge. The unique
// constraint on invitee_id backs the at-most-one-referral-per-invitee rule and
// surfaces as ErrInviteeExists.
func (r *Repository) InsertReferralWithTx(ctx context.Context, tx *sqlx.Tx, ref *model.Referral) error {
	query, args, err := squirrel.
		Insert("referrals").
		SetMap(map[string]interface{}{
			"inviter_id":            ref.InviterID,
			"invitee_id":            ref.InviteeID,
			"invitee_referral_code": ref.InviteeReferralCode,
			"points_given":          ref.PointsGiven,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral insert query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return translateConstraintErr(err)
	}

	return nil
}

func (r *Repository) GetReferralsByInviter(ctx context.Context, inviterID int64) ([]*model.ReferralEntry, error) {
	query, args, err := squirrel.
		Select(
			"r.id",
			"r.invitee_id",
			"u.name AS invitee_name",
			"u.email AS invitee_email",
			"r.invitee_referral_code",
			"r.points_given",
			"r.created_at",
		).
		From("referrals r").
		Join("users u ON u.id = r.invitee_id").
		Where(squirrel.Eq{"r.inviter_id": inviterID}).
		OrderBy("r.created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build referrals query: %w", err)
	}

	var rows []*referralEntry
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}

	entries := make([]*model.ReferralEntry, len(rows))
	for i, row := range rows {
		entries[i] = &model.ReferralEntry{
			ReferralID:          row.ReferralID,
			InviteeID:           row.InviteeID,
			InviteeName:         row.InviteeName,
			InviteeEmail:        row.InviteeEmail,
			InviteeReferralCode: row.InviteeReferralCode,
			PointsGiven:         row.PointsGiven,
			CreatedAt:           row.CreatedAt,
		}
	}

	return entries, nil
}

func (r *Repository) GetReferralStats(ctx context.Context, inviterID int64) (*model.ReferralStats, error) {
	user, err := r.GetUserByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	query, args, err := squirrel.
		Select("COUNT(*)").
		From("referrals").
		Where(squirrel.Eq{"inviter_id": inviterID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var count int
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return nil, err
	}

	return &model.ReferralStats{
		InviterID:     inviterID,
		ReferralCount: count,
		Points:        user.Points,
	}, nil
}
