package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/obra-studio/obra-api/internal/storage"
)

type DocumentHandler struct {
	storage *storage.LocalStorage
}

func NewDocumentHandler(storage *storage.LocalStorage) *DocumentHandler {
	return &DocumentHandler{storage: storage}
}

// @Summary Download Document
// @Description Stream a stored document; the URL must carry a valid, unexpired signature
// @Tags Documents
// @Produce octet-stream
// @Param path query string true "Stored file path"
// @Param expires query int true "Expiry unix timestamp"
// @Param sig query string true "HMAC signature"
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string
// @Router /documents/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	relPath := c.Query("path")
	sig := c.Query("sig")
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil || relPath == "" || sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parámetros de descarga inválidos"})
		return
	}

	if err := h.storage.VerifySignature(relPath, expires, sig); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	file, err := h.storage.Open(relPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Archivo no encontrado"})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(relPath))
	c.Header("Content-Type", "application/octet-stream")
	io.Copy(c.Writer, file)
}
