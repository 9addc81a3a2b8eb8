package handler

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/pkg/response"
)

type fileResolver interface {
	ResolveDownload(token string) (string, error)
}

// FileHandler serves exported files through signed tokens.
type FileHandler struct {
	resolver fileResolver
}

// NewFileHandler builds a new handler.
func NewFileHandler(resolver fileResolver) *FileHandler {
	return &FileHandler{resolver: resolver}
}

// Download godoc
// @Summary Download an exported file
// @Tags Files
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /files/{token} [get]
func (h *FileHandler) Download(c *gin.Context) {
	path, err := h.resolver.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	name := filepath.Base(path)
	if strings.HasSuffix(name, ".csv") {
		c.Header("Content-Type", "text/csv")
	} else if strings.HasSuffix(name, ".pdf") {
		c.Header("Content-Type", "application/pdf")
	}
	c.FileAttachment(path, name)
}
