package controllers

import (
	"github.com/shashiranjanraj/unistore/app/listeners"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

// IdempotencyHeader carries the client's checkout token.
const IdempotencyHeader = "Idempotency-Key"

// OrderController serves the caller's own orders.
type OrderController struct {
	orders *services.OrderService
	feed   Streamer
}

func NewOrderController(orders *services.OrderService, feed Streamer) *OrderController {
	return &OrderController{orders: orders, feed: feed}
}

// Create places an order from the caller's cart. A replayed
// Idempotency-Key returns the original order with 200 instead of 201.
func (h *OrderController) Create(c *ctx.Context) {
	var in services.PlaceOrderInput
	if !c.BindJSON(&in) {
		return
	}
	order, created, err := h.orders.Place(c.Context(), c.UserID(), in, c.Header(IdempotencyHeader))
	if err != nil {
		c.Fail(err)
		return
	}
	if !created {
		c.Success(order)
		return
	}
	c.Created(order)
}

func (h *OrderController) Index(c *ctx.Context) {
	page, limit := paging(c)
	orders, total, err := h.orders.List(c.Context(), c.UserID(), page, limit)
	if err != nil {
		c.Fail(err)
		return
	}
	paginated(c, orders, page, limit, total)
}

func (h *OrderController) Show(c *ctx.Context) {
	order, err := h.orders.Get(c.Context(), c.UserID(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}

func (h *OrderController) Cancel(c *ctx.Context) {
	order, err := h.orders.Cancel(c.Context(), c.UserID(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}

// Stream pushes status changes of the caller's orders over a websocket.
func (h *OrderController) Stream(c *ctx.Context) {
	stream(c, h.feed, listeners.UserTopic(c.UserID()))
}
