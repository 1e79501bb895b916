// Package ctx gives handlers a single request context with helpers for
// params, binding, the authenticated user and the JSON envelope.
//
//	func (h *CartController) Show(c *ctx.Context) {
//	    cart, err := h.carts.Get(c.Context(), c.UserID())
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(cart)
//	}
//
//	api.Get("/cart", "cart.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/auth"
	"github.com/shashiranjanraj/unistore/pkg/bind"
	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts h to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{New: func() any { return &Context{} }}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R, c.status = w, r, 0
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

func (c *Context) Query(key string) string { return strings.TrimSpace(c.R.URL.Query().Get(key)) }

// QueryInt parses a query value, returning def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// QueryFloat parses a query value; ok is false when absent or malformed.
func (c *Context) QueryFloat(key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	return f, err == nil
}

func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Claims returns the verified token claims, or nil on public routes.
func (c *Context) Claims() *auth.Claims {
	claims, _ := auth.FromContext(c.R.Context())
	return claims
}

// UserID returns the authenticated subject, or "".
func (c *Context) UserID() string {
	if claims := c.Claims(); claims != nil {
		return claims.UserID()
	}
	return ""
}

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the body into dest. On failure it writes
// the error response and returns false.
//
//	var in AddItemInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

// ─── Responses ────────────────────────────────────────────────────────────────

func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

func (c *Context) Created(data any) {
	c.status = http.StatusCreated
	response.Created(c.W, data)
}

func (c *Context) Message(msg string) {
	c.status = http.StatusOK
	response.Message(c.W, msg)
}

func (c *Context) Paginated(items any, page response.Page) {
	c.status = http.StatusOK
	response.Paginated(c.W, items, page)
}

// Fail writes err using its apperr kind.
func (c *Context) Fail(err error) {
	c.status = apperr.HTTPStatus(apperr.KindOf(err))
	response.Fail(c.W, c.R, err)
}

// Logger returns the request-scoped logger.
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// WrittenStatus returns the status sent through this context, or 0.
func (c *Context) WrittenStatus() int { return c.status }
