package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"referral_system/internal/model"
	"referral_system/internal/service"
	"referral_system/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	us service.UserServiceI
	n  *service.ReferralNotifier
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, n *service.ReferralNotifier) {
	r := &userRoutes{us: us, n: n}
	h := handler.Group("/users")
	{
		h.POST("/", r.RegisterUser)
		h.GET("/:id", r.GetUserByID)
		h.GET("/referral-code/:code", r.GetUserByReferralCode)
		h.GET("/:id/referrals", r.GetUserReferrals)
		h.GET("/:id/referral-stats", r.GetReferralStats)

		h.GET("/:id/referrals/ws", r.ReferralFeed)
	}
}

type RegisterUserRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code"`
}

type UserResponse struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ReferralCode string    `json:"referral_code"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterUserResponse struct {
	User            UserResponse `json:"user"`
	ReferralApplied bool         `json:"referral_applied"`
	PointsGiven     int          `json:"points_given,omitempty"`
	Inviter         *gin.H       `json:"inviter,omitempty"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		ReferralCode: user.ReferralCode,
		Points:       user.Points,
		CreatedAt:    user.CreatedAt,
	}
}

// registerStatus maps a classified registration failure to an HTTP status.
// Unclassified storage errors fall through to 500 with a generic message.
func registerStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidReferralCode):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrSelfReferral):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "failed to register user"
	}
}

func (r *userRoutes) RegisterUser(c *gin.Context) {
	log := logger.Logger()

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.us.Register(c.Request.Context(), req.Email, req.Name, req.ReferralCode)
	if err != nil {
		log.Error("failed to register user",
			zap.Error(err),
			zap.String("email", req.Email))
		status, msg := registerStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	out := RegisterUserResponse{
		User:            toUserResponse(result.User),
		ReferralApplied: result.ReferralApplied,
	}
	if result.ReferralApplied {
		out.PointsGiven = result.PointsGiven
		out.Inviter = &gin.H{
			"id":   result.Inviter.ID,
			"name": result.Inviter.Name,
		}
	}

	c.JSON(http.StatusCreated, out)
}

func parseUserID(c *gin.Context) (int64, bool) {
	log := logger.Logger()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Error("failed to parse user id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

func (r *userRoutes) GetUserByID(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := r.us.GetUserByID(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "no user associated with the provided id"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (r *userRoutes) GetUserByReferralCode(c *gin.Context) {
	log := logger.Logger()

	code := c.Param("code")

	user, err := r.us.GetUserByReferralCode(c.Request.Context(), code)
	if err != nil {
		log.Error("failed to get user by referral code", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid referral code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"referral_code": user.ReferralCode,
	})
}
