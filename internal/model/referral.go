package model

import "time"

type Referral struct {
	ID                  int64
	InviterID           int64
	InviteeID           int64
	InviteeReferralCode string
	PointsGiven         int
	CreatedAt           time.Time
}

// ReferralEntry is one row of an inviter's referral list with the
// invitee's name and email joined in.
type ReferralEntry struct {
	ReferralID          int64
	InviteeID           int64
	InviteeName         string
	InviteeEmail        string
	InviteeReferralCode string
	PointsGiven         int
	CreatedAt           time.Time
}

type ReferralStats struct {
	InviterID     int64
	ReferralCount int
	Points        int
}

type InviterInfo struct {
	ID   int64
	Name string
}

type RegistrationResult struct {
	User            *User
	ReferralApplied bool
	PointsGiven     int
	Inviter         *InviterInfo
}
