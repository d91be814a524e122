package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

type createProductController struct{ svc services.ProductsService }

func NewCreateProductController(svc services.ProductsService) *createProductController {
	return &createProductController{svc}
}

func (h *createProductController) Handle(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCategory) {
			respondError(c, http.StatusBadRequest, "Unknown category")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondData(c, http.StatusCreated, product)
}
