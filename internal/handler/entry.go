package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-system/internal/middleware"
	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
)

// EntryHandler manages blog entries in the admin area.
type EntryHandler struct {
	Entries    *repository.EntryRepo
	Categories *repository.CategoryRepo
	Log        *slog.Logger
	Now        func() time.Time
}

type entryReq struct {
	Title       string     `json:"title" form:"title"`
	Body        string     `json:"body" form:"body"`
	IsPublished bool       `json:"is_published" form:"is_published"`
	PublishedAt *time.Time `json:"published_at" form:"-"`
	Categories  []uint64   `json:"categories" form:"categories"`
}

func (r *entryReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	r.Categories = idsReq{IDs: r.Categories}.ids()
	switch {
	case r.Title == "" || r.Body == "":
		return "title and body required"
	case utf8.RuneCountInString(r.Title) > 50:
		return "title is too long"
	case len(r.Categories) == 0:
		return "choose at least one category"
	}
	return ""
}

func (h *EntryHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns every entry, drafts included, with the category choices.
func (h *EntryHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Entries.ListAll(ctx)
	if err != nil {
		return failure(c, h.Log, "list entries failed", err)
	}
	names, err := h.Entries.CategoryNames(ctx)
	if err != nil {
		return failure(c, h.Log, "list entry categories failed", err)
	}
	for _, e := range items {
		e.Categories = names[e.ID]
	}
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return failure(c, h.Log, "list categories failed", err)
	}
	if items == nil {
		items = []*model.Entry{}
	}
	if cats == nil {
		cats = []*model.Category{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "categories": cats})
}

// Create adds an entry authored by the logged in admin.
func (h *EntryHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msgAccessDenied})
	}
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	e := &model.Entry{
		Title:       req.Title,
		Body:        req.Body,
		IsPublished: req.IsPublished,
		PublishedAt: h.now().Truncate(time.Second),
		UserID:      uid,
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Entries.Create(ctx, e, req.Categories); err != nil {
		return failure(c, h.Log, "create entry failed", err)
	}
	return c.JSON(http.StatusCreated, e)
}

// Edit returns an entry with its linked category ids and all categories.
func (h *EntryHandler) Edit(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return failure(c, h.Log, "load entry failed", err)
	}
	linked, err := h.Entries.CategoryIDs(ctx, id)
	if err != nil {
		return failure(c, h.Log, "load entry categories failed", err)
	}
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return failure(c, h.Log, "list categories failed", err)
	}
	if linked == nil {
		linked = []uint64{}
	}
	if cats == nil {
		cats = []*model.Category{}
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": e, "selected": linked, "categories": cats})
}

// Update rewrites an entry. The publish date may be moved but not into
// the future.
func (h *EntryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return failure(c, h.Log, "load entry failed", err)
	}
	if req.PublishedAt != nil {
		if req.PublishedAt.After(h.now()) {
			return badRequest(c, "the date may not be in the future")
		}
		e.PublishedAt = req.PublishedAt.UTC()
	}
	e.Title, e.Body, e.IsPublished = req.Title, req.Body, req.IsPublished
	if err := h.Entries.Update(ctx, e, req.Categories); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return failure(c, h.Log, "update entry failed", err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete removes one or many entries together with their comments.
func (h *EntryHandler) Delete(c echo.Context) error {
	ids, err := bindIDs(c)
	if err != nil {
		return badRequest(c, "id or ids required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Entries.Delete(ctx, ids...)
	if err != nil {
		return failure(c, h.Log, "delete entries failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
