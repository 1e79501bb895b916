package controllers

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index lists active products.
//
//	GET /api/products?category=&q=&featured=&minPrice=&maxPrice=&sort=&page=&limit=
func (h *ProductController) Index(c *ctx.Context) {
	h.list(c, false)
}

// AdminIndex lists every product, inactive ones included.
func (h *ProductController) AdminIndex(c *ctx.Context) {
	h.list(c, true)
}

func (h *ProductController) list(c *ctx.Context, includeInactive bool) {
	f, err := productFilter(c)
	if err != nil {
		c.Fail(err)
		return
	}
	f.IncludeInactive = includeInactive

	items, total, err := h.catalog.List(c.Context(), f)
	if err != nil {
		c.Fail(err)
		return
	}
	paginated(c, items, f.Page, f.Limit, total)
}

func productFilter(c *ctx.Context) (repositories.ProductFilter, error) {
	f := repositories.ProductFilter{Search: c.Query("q")}
	f.Page, f.Limit = paging(c)
	fields := map[string]string{}

	if raw := c.Query("category"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			fields["category"] = "The category must be a valid id."
		}
		f.Category = id
	}
	switch strings.ToLower(c.Query("featured")) {
	case "":
	case "true", "1":
		featured := true
		f.Featured = &featured
	case "false", "0":
		featured := false
		f.Featured = &featured
	default:
		fields["featured"] = "The featured field must be true or false."
	}
	if lo, ok := c.QueryFloat("minPrice"); ok {
		f.MinPrice = &lo
	} else if c.Query("minPrice") != "" {
		fields["minPrice"] = "The minPrice must be a number."
	}
	if hi, ok := c.QueryFloat("maxPrice"); ok {
		f.MaxPrice = &hi
	} else if c.Query("maxPrice") != "" {
		fields["maxPrice"] = "The maxPrice must be a number."
	}
	switch sort := c.Query("sort"); sort {
	case "", repositories.SortNewest, repositories.SortPriceAsc, repositories.SortPriceDesc:
		f.Sort = sort
	default:
		fields["sort"] = "The selected sort is invalid."
	}

	if len(fields) > 0 {
		return f, apperr.ValidationFields(fields)
	}
	return f, nil
}

// Show returns one active product.
func (h *ProductController) Show(c *ctx.Context) {
	p, err := h.catalog.Get(c.Context(), c.Param("id"), false)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(p)
}

func (h *ProductController) Update(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.catalog.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(p)
}

func (h *ProductController) Destroy(c *ctx.Context) {
	if err := h.catalog.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product deactivated")
}
