package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/prism-be/types"
)

// sendError maps a domain error to its status code and writes the error body.
func sendError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	errorType := ""

	var domainErr *types.Error
	if errors.As(err, &domainErr) {
		errorType = string(domainErr.Type)
		switch domainErr.Type {
		case types.ErrorTypeValidation, types.ErrorTypeDocumentParse:
			status = http.StatusBadRequest
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, types.ErrorResponse{
		Detail:    err.Error(),
		ErrorType: errorType,
	})
}

func sendBadRequest(c *gin.Context, message string, err error) {
	sendError(c, types.ValidationError(message, err))
}
