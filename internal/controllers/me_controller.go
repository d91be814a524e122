package controllers

import (
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/middleware"

	"github.com/gin-gonic/gin"
)

// meController echoes the authenticated principal, which the gate already
// resolved and attached.
type meController struct{}

func NewMeController() *meController {
	return &meController{}
}

func (h *meController) Handle(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	respondData(c, http.StatusOK, principal)
}
