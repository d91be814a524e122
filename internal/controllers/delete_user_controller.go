package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
)

type deleteUserController struct{ svc services.UsersService }

func NewDeleteUserController(svc services.UsersService) *deleteUserController {
	return &deleteUserController{svc}
}

func (h *deleteUserController) Handle(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondOK(c, http.StatusOK)
}
