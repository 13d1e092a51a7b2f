package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Denylist *repository.TokenDenylist
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, d *repository.TokenDenylist) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Denylist: d}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// dummyHash is a throwaway bcrypt hash compared against when the email is
// unknown, so that path costs the same as a wrong-password attempt and
// response timing does not reveal whether an account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Signup: create a user with a bcrypt-hashed password and return the
// stored record. The password hash never appears in the response.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Password, strings.TrimSpace(req.Name), h.Cfg.BcryptCost)
	if err != nil {
		return handleStoreError(c, err, "creating a user")
	}
	return c.JSON(http.StatusCreated, u)
}

// Login: verify credentials, mint a session token and set it as an
// HTTP-only cookie. The token itself is never returned in the body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		var se *repository.StoreError
		if errors.As(err, &se) && se.Kind == repository.KindNotFound {
			utils.VerifyPassword(dummyHash, req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return handleStoreError(c, err, "logging in")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, h.Cfg.TokenTTLMin)
	if err != nil {
		if errors.Is(err, utils.ErrNoSecret) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "JWT_SECRET is not defined in environment variables"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	h.setSessionCookie(c, tok)

	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "userId": u.ID})
}

// Logout: revoke the current session token (when a denylist is configured)
// and expire the cookie. Always succeeds with 204 so that logout is
// idempotent from the client's point of view.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(utils.TokenCookie); err == nil && cookie.Value != "" {
		if claims, err := utils.ParseSessionToken(h.Cfg.JWTSecret, cookie.Value); err == nil {
			_ = h.Denylist.Revoke(c.Request().Context(), claims.ID, time.Until(claims.Exp))
		}
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, tok utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     utils.TokenCookie,
		Value:    tok.Token,
		Path:     "/",
		MaxAge:   h.Cfg.TokenTTLMin * 60,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Cfg.Env == "prod", // only secure in prod
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     utils.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Cfg.Env == "prod",
	})
}
