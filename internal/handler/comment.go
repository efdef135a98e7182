package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
)

// CommentHandler moderates visitor comments in the admin area.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Log      *slog.Logger
}

type commentEditReq struct {
	commentReq
	Reply string `json:"reply" form:"reply"`
}

// List returns all comments, newest first.
func (h *CommentHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Comments.ListAll(ctx)
	if err != nil {
		return failure(c, h.Log, "list comments failed", err)
	}
	if items == nil {
		items = []*model.Comment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *CommentHandler) load(c echo.Context) (*model.Comment, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	return h.Comments.GetByID(ctx, id)
}

// Edit returns one comment.
func (h *CommentHandler) Edit(c echo.Context) error {
	cm, err := h.load(c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return failure(c, h.Log, "load comment failed", err)
	}
	return c.JSON(http.StatusOK, cm)
}

// Update edits a comment and stores the admin's reply.
func (h *CommentHandler) Update(c echo.Context) error {
	var req commentEditReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	req.Reply = strings.TrimSpace(req.Reply)
	if utf8.RuneCountInString(req.Reply) > 300 {
		return badRequest(c, "reply is too long")
	}
	cm, err := h.load(c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return failure(c, h.Log, "load comment failed", err)
	}
	cm.Name, cm.Email, cm.Website, cm.Body, cm.Reply = req.Name, req.Email, req.Website, req.Comment, req.Reply

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Comments.Update(ctx, cm); err != nil {
		return failure(c, h.Log, "update comment failed", err)
	}
	return c.JSON(http.StatusOK, cm)
}

// Delete removes one or many comments.
func (h *CommentHandler) Delete(c echo.Context) error {
	ids, err := bindIDs(c)
	if err != nil {
		return badRequest(c, "id or ids required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Comments.Delete(ctx, ids...)
	if err != nil {
		return failure(c, h.Log, "delete comments failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
