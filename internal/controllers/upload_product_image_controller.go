package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

type uploadProductImageController struct{ svc services.ProductsService }

func NewUploadProductImageController(svc services.ProductsService) *uploadProductImageController {
	return &uploadProductImageController{svc}
}

func (h *uploadProductImageController) Handle(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Image file required")
		return
	}
	if file.Size > maxImageBytes {
		respondError(c, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	product, err := h.svc.AttachImage(c.Request.Context(), c.Param("id"), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondData(c, http.StatusOK, product)
}
