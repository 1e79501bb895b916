// Package controllers adapts the storefront services to HTTP. Handlers
// are ctx.HandlerFunc values mounted by package routes.
package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
	"github.com/shashiranjanraj/unistore/pkg/response"
)

// Streamer upgrades a request to a websocket subscribed to topics.
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, topics ...string) error
}

// paging reads page and limit from the query, clamped the way the
// repositories clamp them.
func paging(c *ctx.Context) (page, limit int) {
	page, limit, _ = repositories.Paging(c.QueryInt("page", 1), c.QueryInt("limit", repositories.DefaultPageSize))
	return page, limit
}

func paginated[T any](c *ctx.Context, items []T, page, limit int, total int64) {
	if items == nil {
		items = []T{}
	}
	c.Paginated(items, response.NewPage(page, limit, total))
}

func stream(c *ctx.Context, s Streamer, topics ...string) {
	if err := s.Serve(c.W, c.R, topics...); err != nil {
		c.Logger().Warn("websocket upgrade failed", "error", err)
	}
}
