package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type deleteCategoryController struct{ svc services.CategoriesService }

func NewDeleteCategoryController(svc services.CategoriesService) *deleteCategoryController {
	return &deleteCategoryController{svc}
}

func (h *deleteCategoryController) Handle(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			respondError(c, http.StatusNotFound, "Category not found")
		case errors.Is(err, services.ErrCategoryInUse):
			respondError(c, http.StatusConflict, "Category has products")
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondOK(c, http.StatusOK)
}
