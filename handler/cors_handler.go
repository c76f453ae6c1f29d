package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/prism-be/middleware"
)

type CorsHandler struct {
	middleware gin.HandlerFunc
}

// NewCorsHandler allows every origin; the API carries no credentials.
func NewCorsHandler() *CorsHandler {
	return &CorsHandler{
		middleware: cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Content-Type", middleware.HeaderRequestID},
			ExposeHeaders:   []string{middleware.HeaderRequestID},
			MaxAge:          12 * time.Hour,
		}),
	}
}

func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	h.middleware(c)
}
