package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type updateProductController struct{ svc services.ProductsService }

func NewUpdateProductController(svc services.ProductsService) *updateProductController {
	return &updateProductController{svc}
}

func (h *updateProductController) Handle(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			respondError(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrUnknownCategory):
			respondError(c, http.StatusBadRequest, "Unknown category")
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondData(c, http.StatusOK, product)
}
