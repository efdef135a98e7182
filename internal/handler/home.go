package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-system/internal/model"
	"github.com/iliyamo/blog-system/internal/repository"
)

// EntriesPerPage is the size of a page on the start page.
const EntriesPerPage = 20

// HomeHandler serves the public blog pages.
type HomeHandler struct {
	Entries  *repository.EntryRepo
	Comments *repository.CommentRepo
	Log      *slog.Logger
	Now      func() time.Time
}

type commentReq struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Website string `json:"website" form:"website"`
	Comment string `json:"comment" form:"comment"`
}

// validate trims the fields and checks the column limits.
func (r *commentReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Website = strings.TrimSpace(r.Website)
	r.Comment = strings.TrimSpace(r.Comment)
	switch {
	case r.Name == "" || r.Comment == "":
		return "name and comment required"
	case utf8.RuneCountInString(r.Name) > 30:
		return "name is too long"
	case utf8.RuneCountInString(r.Email) > 50:
		return "email is too long"
	case utf8.RuneCountInString(r.Website) > 100:
		return "website is too long"
	case utf8.RuneCountInString(r.Comment) > 300:
		return "comment is too long"
	}
	return ""
}

// Index lists published entries, newest first, EntriesPerPage at a time.
func (h *HomeHandler) Index(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, total, err := h.Entries.ListPublished(ctx, EntriesPerPage, (page-1)*EntriesPerPage)
	if err != nil {
		return failure(c, h.Log, "list entries failed", err)
	}
	if err := h.attachCategories(c, items); err != nil {
		return failure(c, h.Log, "list categories failed", err)
	}
	if items == nil {
		items = []*model.Entry{}
	}
	pages := (total + EntriesPerPage - 1) / EntriesPerPage
	return c.JSON(http.StatusOK, echo.Map{"items": items, "page": page, "pages": pages, "total": total})
}

func (h *HomeHandler) attachCategories(c echo.Context, items []*model.Entry) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint64, len(items))
	for i, e := range items {
		ids[i] = e.ID
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	names, err := h.Entries.CategoryNames(ctx, ids...)
	if err != nil {
		return err
	}
	for _, e := range items {
		e.Categories = names[e.ID]
	}
	return nil
}

// publishedEntry loads a visible entry; drafts count as missing.
func (h *HomeHandler) publishedEntry(c echo.Context) (*model.Entry, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsPublished {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

// EntryComments shows one published entry with its comments. Unknown
// entries send the visitor back to the start page.
func (h *HomeHandler) EntryComments(c echo.Context) error {
	e, err := h.publishedEntry(c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Redirect(http.StatusFound, "/")
		}
		return failure(c, h.Log, "load entry failed", err)
	}
	if err := h.attachCategories(c, []*model.Entry{e}); err != nil {
		return failure(c, h.Log, "list categories failed", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	comments, err := h.Comments.ListByEntry(ctx, e.ID)
	if err != nil {
		return failure(c, h.Log, "list comments failed", err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return c.JSON(http.StatusOK, echo.Map{"entry": e, "comments": comments})
}

// AddComment posts a visitor comment on a published entry.
func (h *HomeHandler) AddComment(c echo.Context) error {
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	e, err := h.publishedEntry(c)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return failure(c, h.Log, "load entry failed", err)
	}
	cm := &model.Comment{
		EntryID:   e.ID,
		Name:      req.Name,
		Email:     req.Email,
		Website:   req.Website,
		Body:      req.Comment,
		CreatedAt: h.now(),
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Comments.Create(ctx, cm); err != nil {
		return failure(c, h.Log, "create comment failed", err)
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *HomeHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
