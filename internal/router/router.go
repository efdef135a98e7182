// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-system/internal/handler"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Health     *handler.HealthHandler
	Home       *handler.HomeHandler
	Account    *handler.AccountHandler
	Entries    *handler.EntryHandler
	Comments   *handler.CommentHandler
	Categories *handler.CategoryHandler
}

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", h.Health.Health)
}

// RegisterPublic registers the pages visitors can reach without logging in.
// cache wraps the read-only blog pages.
func RegisterPublic(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	e.GET("/", h.Home.Index, cache)
	e.GET("/Home/Index", h.Home.Index, cache)
	e.GET("/Home/EntryComments/:id", h.Home.EntryComments, cache)
	e.POST("/Home/EntryComments/:id", h.Home.AddComment)

	e.GET("/Home/Login", h.Account.LoginPage)
	e.POST("/Home/Login", h.Account.Login)
	e.GET("/Home/RequestPassword", h.Account.LoginPage)
	e.POST("/Home/RequestPassword", h.Account.RequestPassword)
	e.GET("/Home/ResetPassword", h.Account.ResetPasswordPage)
	e.POST("/Home/ResetPassword", h.Account.ResetPassword)
	e.GET("/Home/AccessDenied", h.Account.AccessDenied)
}

// RegisterAdmin registers the admin area. Access control is done by the
// access gate installed with e.Pre, which covers these prefixes.
func RegisterAdmin(e *echo.Echo, h Handlers) {
	entries := e.Group("/Entry")
	entries.GET("", h.Entries.List)
	entries.GET("/Index", h.Entries.List)
	entries.POST("/Create", h.Entries.Create)
	entries.GET("/Edit/:id", h.Entries.Edit)
	entries.POST("/Edit/:id", h.Entries.Update)
	entries.POST("/Delete", h.Entries.Delete)

	comments := e.Group("/Comment")
	comments.GET("", h.Comments.List)
	comments.GET("/Index", h.Comments.List)
	comments.GET("/Edit/:id", h.Comments.Edit)
	comments.POST("/Edit/:id", h.Comments.Update)
	comments.POST("/Delete", h.Comments.Delete)

	categories := e.Group("/Category")
	categories.GET("", h.Categories.List)
	categories.GET("/Index", h.Categories.List)
	categories.POST("/Create", h.Categories.Create)
	categories.GET("/Edit/:id", h.Categories.Edit)
	categories.POST("/Edit/:id", h.Categories.Update)
	categories.POST("/Delete", h.Categories.Delete)

	user := e.Group("/User")
	user.GET("/Edit", h.Account.EditProfile)
	user.POST("/Edit", h.Account.UpdateProfile)
	user.GET("/Logout", h.Account.Logout)
}
