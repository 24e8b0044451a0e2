package api

import (
	"errors"
	"net/http"
	"time"

	"referral_system/internal/service"
	"referral_system/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type referralEntry struct {
	InviteeID           int64     `json:"invitee_id"`
	InviteeName         string    `json:"invitee_name"`
	InviteeEmail        string    `json:"invitee_email"`
	InviteeReferralCode string    `json:"invitee_referral_code"`
	PointsGiven         int       `json:"points_given"`
	CreatedAt           time.Time `json:"created_at"`
}

func (r *userRoutes) GetUserReferrals(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseUserID(c)
	if !ok {
		return
	}

	referrals, err := r.us.GetUserReferrals(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get user referrals", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user referrals"})
		return
	}

	out := make([]referralEntry, len(referrals))
	for i, ref := range referrals {
		out[i] = referralEntry{
			InviteeID:           ref.InviteeID,
			InviteeName:         ref.InviteeName,
			InviteeEmail:        ref.InviteeEmail,
			InviteeReferralCode: ref.InviteeReferralCode,
			PointsGiven:         ref.PointsGiven,
			CreatedAt:           ref.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *userRoutes) GetReferralStats(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseUserID(c)
	if !ok {
		return
	}

	stats, err := r.us.GetReferralStats(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get referral stats", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inviter_id":     stats.InviterID,
		"referral_count": stats.ReferralCount,
		"points":         stats.Points,
	})
}

type feedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ReferralFeed upgrades the connection and streams referral events for the
// given inviter until the client disconnects.
func (r *userRoutes) ReferralFeed(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if _, err := r.us.GetUserByID(c.Request.Context(), id); err != nil {
		log.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	events, unsubscribe := r.n.Subscribe(id)

	go r.referralFeedLoop(conn, events, unsubscribe)
}

func (r *userRoutes) referralFeedLoop(conn *websocket.Conn, events <-chan service.ReferralEvent, unsubscribe func()) {
	log := logger.Logger()

	defer func() {
		unsubscribe()
		conn.Close()
	}()

	// Drain client frames so closes are noticed; the feed is write-only.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}

			out, err := json.Marshal(feedMessage{
				Type: "REFERRAL_APPLIED",
				Data: event,
			})
			if err != nil {
				log.Error("failed to marshal referral event", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				log.Error("failed to write referral event", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
