package controllers

import (
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/bind"
	"github.com/shashiranjanraj/unistore/pkg/ctx"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Store accepts a multipart "file" field holding a product image.
func (h *UploadController) Store(c *ctx.Context) {
	file, header, err := bind.File(c.R, "file", services.MaxUploadBytes)
	if err != nil {
		c.Fail(err)
		return
	}
	defer file.Close()

	up, err := h.uploads.StoreImage(c.Context(), file, header.Size)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(up)
}
