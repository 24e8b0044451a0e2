package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferralNotifier(t *testing.T) {
	n := NewReferralNotifier()

	t.Run("Events reach only the inviter's subscribers", func(t *testing.T) {
		inviterCh, unsubInviter := n.Subscribe(1)
		otherCh, unsubOther := n.Subscribe(2)
		defer unsubInviter()
		defer unsubOther()

		n.Publish(ReferralEvent{InviterID: 1, InviteeName: "Bob", PointsGiven: 5000})

		select {
		case event := <-inviterCh:
			assert.Equal(t, "Bob", event.InviteeName)
		default:
			t.Fatal("inviter subscriber did not receive the event")
		}

		select {
		case <-otherCh:
			t.Fatal("unrelated subscriber received the event")
		default:
		}
	})

	t.Run("Publish without subscribers is a no-op", func(t *testing.T) {
		n.Publish(ReferralEvent{InviterID: 99})
	})

	t.Run("Unsubscribe closes the channel and is idempotent", func(t *testing.T) {
		ch, unsubscribe := n.Subscribe(3)
		unsubscribe()
		unsubscribe()

		_, open := <-ch
		assert.False(t, open)

		n.Publish(ReferralEvent{InviterID: 3})
	})
}
