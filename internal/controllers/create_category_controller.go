package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type createCategoryController struct{ svc services.CategoriesService }

func NewCreateCategoryController(svc services.CategoriesService) *createCategoryController {
	return &createCategoryController{svc}
}

func (h *createCategoryController) Handle(c *gin.Context) {
	var req domain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnusableSlug):
			respondError(c, http.StatusBadRequest, "Slug must contain letters or digits")
		case errors.Is(err, persistence.ErrAlreadyExists):
			respondError(c, http.StatusConflict, "Category slug already exists")
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondData(c, http.StatusCreated, category)
}
