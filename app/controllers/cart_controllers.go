package controllers

import (
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

// CartController serves the caller's own cart.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func (h *CartController) Show(c *ctx.Context) {
	view, err := h.carts.View(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(view)
}

func (h *CartController) Add(c *ctx.Context) {
	var in services.AddItemInput
	if !c.BindJSON(&in) {
		return
	}
	view, err := h.carts.Add(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(view)
}

func (h *CartController) Update(c *ctx.Context) {
	var in services.UpdateItemInput
	if !c.BindJSON(&in) {
		return
	}
	view, err := h.carts.UpdateQuantity(c.Context(), c.UserID(), c.Param("itemId"), in.Quantity)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(view)
}

func (h *CartController) Remove(c *ctx.Context) {
	view, err := h.carts.Remove(c.Context(), c.UserID(), c.Param("itemId"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(view)
}

func (h *CartController) Clear(c *ctx.Context) {
	if err := h.carts.Clear(c.Context(), c.UserID()); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cart cleared")
}
