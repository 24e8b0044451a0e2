package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"referral_system/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	ReferralCode string    `db:"referral_code"`
	Points       int       `db:"points"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const uniqueViolation = "23505"

// translateConstraintErr maps a unique-constraint violation to the matching
// sentinel so callers never see a raw driver error for an expected conflict.
func translateConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrEmailExists
	case strings.Contains(pgErr.ConstraintName, "referral_code"):
		return ErrReferralCodeExists
	case strings.Contains(pgErr.ConstraintName, "invitee"):
		return ErrInviteeExists
	}
	return err
}

func (u *User) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		ReferralCode: u.ReferralCode,
		Points:       u.Points,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *Repository) getUserBy(ctx context.Context, q sqlx.QueryerContext, pred squirrel.Eq) (*model.User, error) {
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	err = sqlx.GetContext(ctx, q, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUserBy(ctx, r.db, squirrel.Eq{"id": id})
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return r.getUserBy(ctx, r.db, squirrel.Eq{"referral_code": code})
}

func (r *Repository) GetUserByIDWithTx(ctx context.Context, tx *sqlx.Tx, id int64) (*model.User, error) {
	return r.getUserBy(ctx, tx, squirrel.Eq{"id": id})
}

func (r *Repository) GetUserByEmailWithTx(ctx context.Context, tx *sqlx.Tx, email string) (*model.User, error) {
	return r.getUserBy(ctx, tx, squirrel.Eq{"email": email})
}

func (r *Repository) GetUserByReferralCodeWithTx(ctx context.Context, tx *sqlx.Tx, code string) (*model.User, error) {
	return r.getUserBy(ctx, tx, squirrel.Eq{"referral_code": code})
}

func (r *Repository) ReferralCodeExistsWithTx(ctx context.Context, tx *sqlx.Tx, code string) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From("users").
		Where(squirrel.Eq{"referral_code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = tx.GetContext(ctx, &one, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// InsertUserWithTx creates the user row and returns the assigned id. Unique
// violations on email or referral_code surface as ErrEmailExists and
// ErrReferralCodeExists.
func (r *Repository) InsertUserWithTx(ctx context.Context, tx *sqlx.Tx, email, name, referralCode string) (int64, error) {
	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"email":         email,
			"name":          name,
			"referral_code": referralCode,
			"points":        0,
		}).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build user insert query: %w", err)
	}

	var id int64
	err = tx.GetContext(ctx, &id, query, args...)
	if err != nil {
		return 0, translateConstraintErr(err)
	}

	return id, nil
}

func (r *Repository) AddPointsWithTx(ctx context.Context, tx *sqlx.Tx, userID int64, points int) error {
	query, args, err := squirrel.
		Update("users").
		Set("points", squirrel.Expr("points + ?", points)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
