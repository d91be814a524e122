package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type deleteProductController struct{ svc services.ProductsService }

func NewDeleteProductController(svc services.ProductsService) *deleteProductController {
	return &deleteProductController{svc}
}

func (h *deleteProductController) Handle(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondOK(c, http.StatusOK)
}
