package model

import "time"

type User struct {
	ID           int64
	Email        string
	Name         string
	ReferralCode string
	Points       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
