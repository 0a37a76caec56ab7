package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sportsstore/internal/domain/user"
)

type Users interface {
	Create(ctx context.Context, email, passwordHash, role string) (user.User, error)
	ByEmail(ctx context.Context, email string) (user.User, error)
	ByID(ctx context.Context, id int64) (user.User, error)
}

type RefreshTokens interface {
	Store(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	IsValid(ctx context.Context, userID int64, tokenHash string) (bool, error)
	Revoke(ctx context.Context, userID int64, tokenHash string) error
	RevokeAll(ctx context.Context, userID int64) error
}

type Dependencies struct {
	JWT     *JWTManager
	Users   Users
	Refresh RefreshTokens
	Log     *slog.Logger

	// SecureCookie marks the access cookie Secure; set it when served over TLS.
	SecureCookie bool
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Handler{deps: d}
}

type credentialsReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	All          bool   `json:"all"`
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func (h *Handler) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Password) < MinPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}

	pwHash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
		return
	}

	u, err := h.deps.Users.Create(c.Request.Context(), normalizeEmail(req.Email), pwHash, user.RoleUser)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.deps.Log.ErrorContext(c.Request.Context(), "create user failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.deps.Users.ByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil || !u.IsActive || !CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.issueTokens(c, u.ID, u.Role, gin.H{"user": u})
}

// Refresh rotates the refresh token: the presented one is revoked.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.deps.JWT.ParseRefresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	ok, err := h.deps.Refresh.IsValid(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired or revoked"})
		return
	}

	_ = h.deps.Refresh.Revoke(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))

	h.issueTokens(c, claims.UserID, claims.Role, gin.H{})
}

func (h *Handler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if claims, err := h.deps.JWT.ParseRefresh(req.RefreshToken); err == nil {
		if req.All {
			_ = h.deps.Refresh.RevokeAll(c.Request.Context(), claims.UserID)
		} else {
			_ = h.deps.Refresh.Revoke(c.Request.Context(), claims.UserID, HashToken(req.RefreshToken))
		}
	}
	h.setAccessCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.deps.Users.ByID(c.Request.Context(), c.GetInt64(CtxUserIDKey))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) issueTokens(c *gin.Context, userID int64, role string, body gin.H) {
	access, accessExp, err := h.deps.JWT.SignAccess(userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	refresh, refreshExp, err := h.deps.JWT.SignRefresh(userID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	if err := h.deps.Refresh.Store(c.Request.Context(), userID, HashToken(refresh), refreshExp); err != nil {
		h.deps.Log.ErrorContext(c.Request.Context(), "store refresh token failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	h.setAccessCookie(c, access, int(h.deps.JWT.AccessTTL().Seconds()))

	body["access_token"] = access
	body["access_exp"] = accessExp
	body["refresh_token"] = refresh
	body["refresh_exp"] = refreshExp
	c.JSON(http.StatusOK, body)
}

func (h *Handler) setAccessCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, value, maxAge, "/", "", h.deps.SecureCookie, true)
}
