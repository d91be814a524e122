package controllers

import (
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
)

type listUsersController struct{ svc services.UsersService }

func NewListUsersController(svc services.UsersService) *listUsersController {
	return &listUsersController{svc}
}

func (h *listUsersController) Handle(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if users == nil {
		users = []*domain.Principal{}
	}
	respondData(c, http.StatusOK, users)
}
