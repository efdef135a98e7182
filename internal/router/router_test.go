package router

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/blog-system/internal/handler"
)

func TestRoutes(t *testing.T) {
	e := echo.New()
	h := Handlers{
		Health:     &handler.HealthHandler{},
		Home:       &handler.HomeHandler{},
		Account:    &handler.AccountHandler{},
		Entries:    &handler.EntryHandler{},
		Comments:   &handler.CommentHandler{},
		Categories: &handler.CategoryHandler{},
	}
	noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(e, h)
	RegisterPublic(e, h, noop)
	RegisterAdmin(e, h)

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /",
		"GET /Home/Index",
		"GET /Home/EntryComments/:id",
		"POST /Home/EntryComments/:id",
		"POST /Home/Login",
		"POST /Home/RequestPassword",
		"GET /Home/ResetPassword",
		"POST /Home/ResetPassword",
		"GET /Home/AccessDenied",
		"GET /Entry",
		"POST /Entry/Create",
		"POST /Entry/Edit/:id",
		"POST /Entry/Delete",
		"POST /Comment/Edit/:id",
		"POST /Comment/Delete",
		"POST /Category/Create",
		"POST /Category/Delete",
		"POST /User/Edit",
		"GET /User/Logout",
	} {
		assert.True(t, got[want], want)
	}
}
