package controllers

import (
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (h *CategoryController) Index(c *ctx.Context) {
	list, err := h.categories.List(c.Context(), false)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(list)
}

func (h *CategoryController) Store(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.categories.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(cat)
}

func (h *CategoryController) Update(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := h.categories.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(cat)
}

func (h *CategoryController) Destroy(c *ctx.Context) {
	if err := h.categories.Delete(c.Context(), c.Param("id")); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Category deactivated")
}
