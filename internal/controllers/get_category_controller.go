package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type getCategoryController struct{ svc services.CategoriesService }

func NewGetCategoryController(svc services.CategoriesService) *getCategoryController {
	return &getCategoryController{svc}
}

func (h *getCategoryController) Handle(c *gin.Context) {
	category, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondData(c, http.StatusOK, category)
}
