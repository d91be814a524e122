package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type updateUserController struct{ svc services.UsersService }

func NewUpdateUserController(svc services.UsersService) *updateUserController {
	return &updateUserController{svc}
}

func (h *updateUserController) Handle(c *gin.Context) {
	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrEmailTaken):
			respondError(c, http.StatusConflict, "Email already registered")
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondData(c, http.StatusOK, user)
}
