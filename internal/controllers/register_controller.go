package controllers

import (
	"errors"
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

type registerController struct{ svc services.AuthService }

func NewRegisterController(svc services.AuthService) *registerController {
	return &registerController{svc}
}

func (h *registerController) Handle(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	principal, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			respondError(c, http.StatusConflict, "Username already taken")
		case errors.Is(err, services.ErrEmailTaken):
			respondError(c, http.StatusConflict, "Email already registered")
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondData(c, http.StatusCreated, principal)
}
