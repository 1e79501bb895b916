package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/unistore/app/listeners"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminOrderController is the order back office.
type AdminOrderController struct {
	orders *services.AdminOrderService
	feed   Streamer
}

func NewAdminOrderController(orders *services.AdminOrderService, feed Streamer) *AdminOrderController {
	return &AdminOrderController{orders: orders, feed: feed}
}

//	GET /api/admin/orders?status=&paymentStatus=&page=&limit=
func (h *AdminOrderController) Index(c *ctx.Context) {
	page, limit := paging(c)
	f, err := h.orders.Filter(c.Query("status"), c.Query("paymentStatus"), page, limit)
	if err != nil {
		c.Fail(err)
		return
	}
	orders, total, err := h.orders.List(c.Context(), f)
	if err != nil {
		c.Fail(err)
		return
	}
	paginated(c, orders, page, limit, total)
}

func (h *AdminOrderController) Show(c *ctx.Context) {
	order, err := h.orders.Get(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}

func (h *AdminOrderController) Status(c *ctx.Context) {
	view, err := h.orders.Status(c.Context(), c.Param("id"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(view)
}

func (h *AdminOrderController) UpdateStatus(c *ctx.Context) {
	var in services.UpdateStatusInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Context(), c.UserID(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}

func (h *AdminOrderController) Stats(c *ctx.Context) {
	stats, err := h.orders.Stats(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(stats)
}

// Export downloads the filtered orders as a workbook.
func (h *AdminOrderController) Export(c *ctx.Context) {
	f, err := h.orders.Filter(c.Query("status"), c.Query("paymentStatus"), 0, 0)
	if err != nil {
		c.Fail(err)
		return
	}
	var buf bytes.Buffer
	if err := h.orders.Export(c.Context(), &buf, f); err != nil {
		c.Fail(err)
		return
	}

	name := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.W.Header().Set("Content-Type", xlsxContentType)
	c.W.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.W.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(c.W); err != nil {
		c.Logger().Warn("order export interrupted", "error", err)
	}
}

// Stream pushes new orders and status changes to admins.
func (h *AdminOrderController) Stream(c *ctx.Context) {
	stream(c, h.feed, listeners.TopicAdmin)
}
