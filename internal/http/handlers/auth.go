package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/repo/postgres"
	"github.com/geocoder89/postboard/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, u user.User) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

type SignUpRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Username string  `json:"username" binding:"required,min=3,max=15"`
	Name     string  `json:"name" binding:"required"`
	LastName *string `json:"lastName"`
	Password string  `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		Name:         req.Name,
		LastName:     req.LastName,
		IsActive:     true,
		Role:         user.RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = h.userWriter.Create(ctx.Request.Context(), u)

	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrEmailAlreadyUsed):
			RespondBadRequest(ctx, "Email is already in use.", nil)
		case errors.Is(err, postgres.ErrUsernameTaken):
			RespondBadRequest(ctx, "Username is already in use.", nil)
		default:
			RespondInternal(ctx, "Could not create user")
		}
		return
	}

	if !h.setAuthCookie(ctx, u) {
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	foundUser, err := h.users.GetByUsername(ctx.Request.Context(), req.Username)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	if !h.setAuthCookie(ctx, foundUser) {
		return
	}

	ctx.JSON(http.StatusOK, foundUser)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearAuthCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Me returns the caller's own user row. This is the one endpoint where a
// resolved identity without a backing row is a hard 404, not a variant.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, err := middlewares.CallerFromContext(ctx).Resolve()

	if err != nil || id == nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials.")
		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), *id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondError(ctx, http.StatusNotFound, "not_found", "User does not exist.", nil)
			return
		}

		RespondInternal(ctx, "Could not load user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// Helper functions

func (h *AuthHandler) setAuthCookie(ctx *gin.Context, u user.User) bool {
	token, err := h.jwt.Generate(u.ID, u.Username, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate credential")
		return false
	}

	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		auth.CookieName,
		token,
		int(h.jwt.TTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)

	return true
}

func (h *AuthHandler) clearAuthCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		auth.CookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
