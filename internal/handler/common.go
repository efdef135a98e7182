package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every store call made by a handler.
const dbTimeout = 5 * time.Second

// User-visible messages.
const (
	msgInvalidLogin     = "Invalid login!"
	msgResetSent        = "A password reset link has now been sent to your user email."
	msgUserNotFound     = "The user was not found."
	msgPasswordMismatch = "The passwords did not match."
	msgPasswordRequired = "Enter a new password."
	msgInvalidToken     = "Invalid token."
	msgPasswordUpdated  = "The password is now updated."
	msgAccessDenied     = "Access denied. Please log in."
	msgGenericFailure   = "Something went wrong. Please try again later."
)

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// failure logs err with detail and answers with a generic 500.
func failure(c echo.Context, log *slog.Logger, what string, err error) error {
	log.ErrorContext(c.Request().Context(), what, "err", err, "path", c.Request().URL.Path)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgGenericFailure})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// idsReq is the body of bulk delete requests: a single id, a list, or both.
type idsReq struct {
	ID  uint64   `json:"id" form:"id"`
	IDs []uint64 `json:"ids" form:"ids"`
}

// ids returns the distinct non-zero ids of the request in submission order.
func (r idsReq) ids() []uint64 {
	seen := map[uint64]bool{}
	var out []uint64
	for _, id := range append([]uint64{r.ID}, r.IDs...) {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// bindIDs binds and validates a bulk delete request.
func bindIDs(c echo.Context) ([]uint64, error) {
	var req idsReq
	if err := c.Bind(&req); err != nil {
		return nil, err
	}
	ids := req.ids()
	if len(ids) == 0 {
		return nil, errors.New("no ids given")
	}
	return ids, nil
}
