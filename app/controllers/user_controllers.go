package controllers

import (
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Me records the sign-in and returns the caller's profile.
func (h *UserController) Me(c *ctx.Context) {
	u, err := h.users.Me(c.Context(), c.Claims())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(u)
}

func (h *UserController) UpdateMe(c *ctx.Context) {
	var in services.ProfileInput
	if !c.BindJSON(&in) {
		return
	}
	if !h.signedIn(c) {
		return
	}
	u, err := h.users.UpdateProfile(c.Context(), c.UserID(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(u)
}

func (h *UserController) Wishlist(c *ctx.Context) {
	if !h.signedIn(c) {
		return
	}
	h.wishlist(c)
}

func (h *UserController) wishlist(c *ctx.Context) {
	products, err := h.users.Wishlist(c.Context(), c.UserID())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

func (h *UserController) AddToWishlist(c *ctx.Context) {
	if !h.signedIn(c) {
		return
	}
	if err := h.users.AddToWishlist(c.Context(), c.UserID(), c.Param("productId")); err != nil {
		c.Fail(err)
		return
	}
	h.wishlist(c)
}

func (h *UserController) RemoveFromWishlist(c *ctx.Context) {
	if !h.signedIn(c) {
		return
	}
	if err := h.users.RemoveFromWishlist(c.Context(), c.UserID(), c.Param("productId")); err != nil {
		c.Fail(err)
		return
	}
	h.wishlist(c)
}

// signedIn makes sure the caller has an active account, writing the error
// response when not.
func (h *UserController) signedIn(c *ctx.Context) bool {
	if _, err := h.users.Me(c.Context(), c.Claims()); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

func (h *UserController) AdminIndex(c *ctx.Context) {
	page, limit := paging(c)
	users, total, err := h.users.List(c.Context(), page, limit)
	if err != nil {
		c.Fail(err)
		return
	}
	paginated(c, users, page, limit, total)
}

func (h *UserController) AdminUpdate(c *ctx.Context) {
	var in services.AdminUserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := h.users.AdminUpdate(c.Context(), c.UserID(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(u)
}
