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

// CategoryHandler manages entry categories in the admin area.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
	Log        *slog.Logger
}

type categoryReq struct {
	Name string `json:"name" form:"name"`
}

func (r *categoryReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	switch {
	case r.Name == "":
		return "name required"
	case utf8.RuneCountInString(r.Name) > 50:
		return "name is too long"
	}
	return ""
}

// List returns all categories ordered by name.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Categories.List(ctx)
	if err != nil {
		return failure(c, h.Log, "list categories failed", err)
	}
	if items == nil {
		items = []*model.Category{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create adds a category with a unique name.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	cat := &model.Category{Name: req.Name}
	if err := h.Categories.Create(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "the category already exists"})
		}
		return failure(c, h.Log, "create category failed", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// Edit returns one category.
func (h *CategoryHandler) Edit(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return failure(c, h.Log, "load category failed", err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Update renames a category.
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	switch err := h.Categories.Rename(ctx, id, req.Name); {
	case err == nil:
		return c.JSON(http.StatusOK, &model.Category{ID: id, Name: req.Name})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "the category already exists"})
	default:
		return failure(c, h.Log, "rename category failed", err)
	}
}

// Delete removes categories. Nothing is removed while any of them is still
// linked to an entry.
func (h *CategoryHandler) Delete(c echo.Context) error {
	ids, err := bindIDs(c)
	if err != nil {
		return badRequest(c, "id or ids required")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Categories.Delete(ctx, ids...)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "the category is used by entries and cannot be deleted"})
		}
		return failure(c, h.Log, "delete categories failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
