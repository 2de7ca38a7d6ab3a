package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/config"
	"github.com/iliyamo/undangan-builder/internal/middleware"
	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/repository"
	"github.com/iliyamo/undangan-builder/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Log    *zap.Logger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Log: log}
}

var errInvalidCredentials = &apiError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "invalid credentials"}

// ----- DTOs -----

type registerReq struct {
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Password    string  `json:"password" validate:"required,min=8"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    *model.User `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// Register creates a regular user and returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, repository.NewUser{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        model.RoleUser,
	}, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	h.Log.Info("user registered", zap.Uint64("user_id", u.ID))

	resp, err := h.issue(ctx, u)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, resp)
}

// Login verifies the credentials and returns a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, false)
}

// AdminLogin is Login restricted to admin accounts.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, true)
}

func (h *AuthHandler) login(c echo.Context, adminOnly bool) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return errInvalidCredentials
	}
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return errInvalidCredentials
	}
	if adminOnly && !u.IsAdmin() {
		return policy.ErrForbidden
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, resp)
}

// Refresh validates the refresh token by hash, revokes it and issues a new
// pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		return invalid("refresh_token", "is required")
	}
	hash := utils.HashRefreshRaw(raw)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return policy.ErrUnauthenticated
	}
	if err != nil {
		return err
	}
	// The conditional revoke decides races between refreshes of one token.
	err = h.Tokens.RevokeByHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return policy.ErrUnauthenticated
	}
	if err != nil {
		return err
	}

	u, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return policy.ErrUnauthenticated
	}
	if err != nil {
		return err
	}

	resp, err := h.issue(ctx, u)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, resp)
}

// Logout revokes the refresh token in the body, or every refresh token of
// the caller when the body carries none.
func (h *AuthHandler) Logout(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}

	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw == "" {
		if err := h.Tokens.RevokeAllForUser(ctx, actor.UserID); err != nil {
			return err
		}
		return respondMessage(c, http.StatusOK, "logged out from all sessions")
	}

	hash := utils.HashRefreshRaw(raw)
	owner, err := h.Tokens.ValidateRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && owner != actor.UserID) {
		return invalid("refresh_token", "is invalid")
	}
	if err != nil {
		return err
	}
	err = h.Tokens.RevokeByHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return invalid("refresh_token", "is invalid")
	}
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "logged out")
}

// Me returns the current user.
func (h *AuthHandler) Me(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	u, err := h.Users.GetByID(c.Request().Context(), actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return policy.ErrUnauthenticated
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

func (h *AuthHandler) issue(ctx context.Context, u *model.User) (*authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &authResp{
		User:    u,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}
