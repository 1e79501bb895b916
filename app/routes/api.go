// Package routes mounts the storefront API on the router.
package routes

import (
	"github.com/shashiranjanraj/unistore/app/controllers"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
	"github.com/shashiranjanraj/unistore/pkg/middleware"
	"github.com/shashiranjanraj/unistore/pkg/rbac"
	"github.com/shashiranjanraj/unistore/pkg/router"
)

// Controllers holds every handler set mounted by RegisterAPI.
type Controllers struct {
	Products    *controllers.ProductController
	Categories  *controllers.CategoryController
	Cart        *controllers.CartController
	Orders      *controllers.OrderController
	AdminOrders *controllers.AdminOrderController
	Users       *controllers.UserController
	Uploads     *controllers.UploadController
}

// RegisterAPI mounts the /api routes. Every route except the catalogue
// reads requires a bearer token; signed-in routes refuse disabled
// accounts, and /api/admin and catalogue writes also require the admin
// role as resolved by roles.
func RegisterAPI(r *router.Router, c Controllers, tokens middleware.TokenVerifier, roles rbac.RoleResolver) {
	authed := middleware.Auth(tokens)
	admin := rbac.HasRole(roles, "admin")
	active := rbac.Active(roles)

	api := r.Group("/api")

	api.Get("/products", "products.index", ctx.Wrap(c.Products.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(c.Products.Show))
	api.Get("/categories", "categories.index", ctx.Wrap(c.Categories.Index))

	catalog := api.Group("", authed, admin)
	catalog.Post("/products", "products.store", ctx.Wrap(c.Products.Store))
	catalog.Put("/products/{id}", "products.update", ctx.Wrap(c.Products.Update))
	catalog.Delete("/products/{id}", "products.destroy", ctx.Wrap(c.Products.Destroy))
	catalog.Post("/categories", "categories.store", ctx.Wrap(c.Categories.Store))
	catalog.Put("/categories/{id}", "categories.update", ctx.Wrap(c.Categories.Update))
	catalog.Delete("/categories/{id}", "categories.destroy", ctx.Wrap(c.Categories.Destroy))

	user := api.Group("", authed, active)
	user.Get("/me", "me.show", ctx.Wrap(c.Users.Me))
	user.Put("/me", "me.update", ctx.Wrap(c.Users.UpdateMe))
	user.Get("/me/wishlist", "wishlist.index", ctx.Wrap(c.Users.Wishlist))
	user.Post("/me/wishlist/{productId}", "wishlist.add", ctx.Wrap(c.Users.AddToWishlist))
	user.Delete("/me/wishlist/{productId}", "wishlist.remove", ctx.Wrap(c.Users.RemoveFromWishlist))

	user.Get("/cart", "cart.show", ctx.Wrap(c.Cart.Show))
	user.Post("/cart", "cart.add", ctx.Wrap(c.Cart.Add))
	user.Delete("/cart", "cart.clear", ctx.Wrap(c.Cart.Clear))
	user.Put("/cart/{itemId}", "cart.update", ctx.Wrap(c.Cart.Update))
	user.Delete("/cart/{itemId}", "cart.remove", ctx.Wrap(c.Cart.Remove))

	user.Post("/orders/create", "orders.create", ctx.Wrap(c.Orders.Create))
	user.Get("/orders", "orders.index", ctx.Wrap(c.Orders.Index))
	user.Get("/orders/stream", "orders.stream", ctx.Wrap(c.Orders.Stream))
	user.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Orders.Show))
	user.Post("/orders/{id}/cancel", "orders.cancel", ctx.Wrap(c.Orders.Cancel))

	adm := api.Group("/admin", authed, admin)
	adm.Get("/products", "admin.products.index", ctx.Wrap(c.Products.AdminIndex))
	adm.Get("/orders", "admin.orders.index", ctx.Wrap(c.AdminOrders.Index))
	adm.Get("/orders/export", "admin.orders.export", ctx.Wrap(c.AdminOrders.Export))
	adm.Get("/orders/stream", "admin.orders.stream", ctx.Wrap(c.AdminOrders.Stream))
	adm.Get("/orders/{id}", "admin.orders.show", ctx.Wrap(c.AdminOrders.Show))
	adm.Get("/orders/{id}/status", "admin.orders.status", ctx.Wrap(c.AdminOrders.Status))
	adm.Put("/orders/{id}/status", "admin.orders.status.update", ctx.Wrap(c.AdminOrders.UpdateStatus))
	adm.Get("/stats", "admin.stats", ctx.Wrap(c.AdminOrders.Stats))
	adm.Get("/users", "admin.users.index", ctx.Wrap(c.Users.AdminIndex))
	adm.Put("/users/{id}", "admin.users.update", ctx.Wrap(c.Users.AdminUpdate))
	adm.Post("/uploads", "admin.uploads.store", ctx.Wrap(c.Uploads.Store))
}
