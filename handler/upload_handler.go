package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	services "github.com/tieubaoca/prism-be/service"
)

type UploadHandler struct {
	fileService *services.FileService
	maxBytes    int64
}

func NewUploadHandler(fileService *services.FileService, maxUploadMB int64) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
		maxBytes:    maxUploadMB << 20,
	}
}

// UploadDocumentHandler reads the multipart "file" field and answers with the
// model graph of the paper.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	// Leave room for the multipart envelope around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		sendBadRequest(c, "invalid file", err)
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		sendBadRequest(c, fmt.Sprintf("file too large: %d bytes, limit is %d", header.Size, h.maxBytes), nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		sendBadRequest(c, "failed to read file", err)
		return
	}

	graph, err := h.fileService.UploadFile(c.Request.Context(), header.Filename, data)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}
