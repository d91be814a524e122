package controllers

import (
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

type listCategoriesController struct{ svc services.CategoriesService }

func NewListCategoriesController(svc services.CategoriesService) *listCategoriesController {
	return &listCategoriesController{svc}
}

func (h *listCategoriesController) Handle(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	respondData(c, http.StatusOK, categories)
}
