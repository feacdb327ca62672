package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eduadmin/internal/client"
	"eduadmin/internal/middleware"
	"eduadmin/internal/session"
)

type AuthHandler struct {
	api      *client.Client
	sessions *session.Store
}

func NewAuthHandler(api *client.Client, sessions *session.Store) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.api.Login(c.Request.Context(), client.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		upstreamError(c, err)
		return
	}

	role := session.RoleFromToken(res.Token)
	id, err := h.sessions.Create(c.Request.Context(), res.Token, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetCookie(middleware.SessionCookie, id, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": res.Token,
		"role":  role,
		"admin": role == session.RoleAdmin,
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(middleware.SessionCookie); err == nil && id != "" {
		_ = h.sessions.Delete(c.Request.Context(), id)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /api/auth/session
// Lets the layout shell decide which navigation to show.
func (h *AuthHandler) Session(c *gin.Context) {
	role := c.GetString(middleware.CtxRole)
	c.JSON(http.StatusOK, gin.H{
		"role":  role,
		"admin": role == session.RoleAdmin,
	})
}

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.api.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type verifyOTPReq struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.api.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type resetPasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.api.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
