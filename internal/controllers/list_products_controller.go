package controllers

import (
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

type listProductsController struct{ svc services.ProductsService }

func NewListProductsController(svc services.ProductsService) *listProductsController {
	return &listProductsController{svc}
}

func (h *listProductsController) Handle(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	respondData(c, http.StatusOK, products)
}
