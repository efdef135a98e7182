package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-system/internal/middleware"
	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/service"
	"github.com/iliyamo/blog-system/internal/session"
)

// resetTokenKey holds a reset token between the emailed link and the form post.
const resetTokenKey = "token"

// AccountHandler serves login, logout, password recovery and the admin's
// own profile.
type AccountHandler struct {
	Auth     *service.AuthService
	Reset    *service.ResetService
	Profile  *service.ProfileService
	Sessions *session.Manager
	Log      *slog.Logger
	// BaseURL, when set, is the scheme and host of emailed reset links
	// (e.g. "https://blog.example.com"). Empty uses the request's own host.
	BaseURL string
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type requestPasswordReq struct {
	Email string `json:"email" form:"email"`
}

type resetPasswordReq struct {
	Token           string `json:"token" form:"token"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type profileReq struct {
	Username    string `json:"username" form:"username"`
	Firstname   string `json:"firstname" form:"firstname"`
	Lastname    string `json:"lastname" form:"lastname"`
	Email       string `json:"email" form:"email"`
	NewPassword string `json:"new_password" form:"new_password"`
}

// LoginPage tells the client whether it is already logged in.
func (h *AccountHandler) LoginPage(c echo.Context) error {
	_, ok, err := h.Sessions.UserID(c)
	if err != nil {
		h.Log.WarnContext(c.Request().Context(), "session lookup failed", "err", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"logged_in": ok})
}

// Login checks the credentials and starts an authenticated session.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthentication) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgInvalidLogin})
		}
		return failure(c, h.Log, "login failed", err)
	}
	if err := h.Sessions.Login(c, u.ID); err != nil {
		return failure(c, h.Log, "session write failed", err)
	}
	h.Log.InfoContext(ctx, "admin logged in", "user_id", u.ID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "redirect": "/Entry"})
}

// Logout ends the session and sends the browser to the start page.
func (h *AccountHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		h.Log.WarnContext(c.Request().Context(), "session clear failed", "err", err)
	}
	return c.Redirect(http.StatusFound, "/")
}

// AccessDenied is where the access gate points unauthenticated visitors.
func (h *AccountHandler) AccessDenied(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"error": msgAccessDenied, "login": "/Home/Login"})
}

// RequestPassword emails a reset link to the given address.
func (h *AccountHandler) RequestPassword(c echo.Context) error {
	var req requestPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return badRequest(c, "email required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	err := h.Reset.RequestReset(ctx, req.Email, func(token string) string {
		return h.resetLink(c, token)
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"success": msgResetSent})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFound})
	default:
		return failure(c, h.Log, "reset request failed", err)
	}
}

// resetLink is the absolute URL of the reset form, on BaseURL or else on
// the request's own host.
func (h *AccountHandler) resetLink(c echo.Context, token string) string {
	base := strings.TrimRight(h.BaseURL, "/")
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + "/Home/ResetPassword?token=" + url.QueryEscape(token)
}

// ResetPasswordPage keeps the token of the emailed link in the session
// until the form is posted.
func (h *AccountHandler) ResetPasswordPage(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return badRequest(c, msgInvalidToken)
	}
	if err := h.Sessions.Set(c, resetTokenKey, token); err != nil {
		return failure(c, h.Log, "session write failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// ResetPassword redeems a reset token for a new password.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Token == "" {
		v, _, err := h.Sessions.Get(c, resetTokenKey)
		if err != nil {
			h.Log.WarnContext(c.Request().Context(), "session lookup failed", "err", err)
		}
		req.Token = v
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	err := h.Reset.Redeem(ctx, service.RedeemInput{
		Token:    req.Token,
		Password: req.Password,
		Confirm:  req.ConfirmPassword,
		Email:    strings.TrimSpace(req.Email),
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrPasswordMismatch):
		return badRequest(c, msgPasswordMismatch)
	case errors.Is(err, service.ErrPasswordEmpty):
		return badRequest(c, msgPasswordRequired)
	case errors.Is(err, service.ErrTokenInvalid):
		h.Log.InfoContext(ctx, "reset token rejected", "err", err)
		return badRequest(c, msgInvalidToken)
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFound})
	default:
		return failure(c, h.Log, "password reset failed", err)
	}

	if err := h.Sessions.Delete(c, resetTokenKey); err != nil {
		h.Log.WarnContext(ctx, "session write failed", "err", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": msgPasswordUpdated})
}

// EditProfile returns the logged in admin's account.
func (h *AccountHandler) EditProfile(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgAccessDenied})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Profile.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFound})
		}
		return failure(c, h.Log, "load profile failed", err)
	}
	return c.JSON(http.StatusOK, profileView(u))
}

// UpdateProfile saves the admin's account. A non-empty new_password is
// hashed and replaces the current one.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgAccessDenied})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
		return badRequest(c, "username and email required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Profile.Update(ctx, id, service.ProfileInput{
		Username:    req.Username,
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, profileView(u))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msgUserNotFound})
	case errors.Is(err, service.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already in use"})
	default:
		return failure(c, h.Log, "update profile failed", err)
	}
}

func profileView(u *model.User) echo.Map {
	return echo.Map{
		"id":        u.ID,
		"username":  u.Username,
		"firstname": u.Firstname,
		"lastname":  u.Lastname,
		"email":     u.Email,
	}
}
