package service

import (
	"sync"
	"time"
)

type ReferralEvent struct {
	InviterID   int64     `json:"inviter_id"`
	InviteeName string    `json:"invitee_name"`
	PointsGiven int       `json:"points_given"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReferralNotifier fans referral events out to websocket subscribers, keyed
// by inviter id. Events are published only after the registration transaction
// has committed.
type ReferralNotifier struct {
	mu   sync.Mutex
	subs map[int64]map[chan ReferralEvent]struct{}
}

func NewReferralNotifier() *ReferralNotifier {
	return &ReferralNotifier{
		subs: make(map[int64]map[chan ReferralEvent]struct{}),
	}
}

func (n *ReferralNotifier) Subscribe(inviterID int64) (<-chan ReferralEvent, func()) {
	ch := make(chan ReferralEvent, 16)

	n.mu.Lock()
	if n.subs[inviterID] == nil {
		n.subs[inviterID] = make(map[chan ReferralEvent]struct{})
	}
	n.subs[inviterID][ch] = struct{}{}
	n.mu.Unlock()

	unsubscribe := func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		if _, ok := n.subs[inviterID][ch]; !ok {
			return
		}
		delete(n.subs[inviterID], ch)
		if len(n.subs[inviterID]) == 0 {
			delete(n.subs, inviterID)
		}
		close(ch)
	}

	return ch, unsubscribe
}

// Publish delivers the event to every subscriber of the inviter. A slow
// subscriber with a full buffer misses the event rather than blocking the
// registration path.
func (n *ReferralNotifier) Publish(event ReferralEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs[event.InviterID] {
		select {
		case ch <- event:
		default:
		}
	}
}
