package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/prism-be/types"
)

type HealthHandler struct {
	provider string
	model    string
}

func NewHealthHandler(provider, model string) *HealthHandler {
	return &HealthHandler{provider: provider, model: model}
}

func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:   "ok",
		Provider: h.provider,
		Model:    h.model,
	})
}
