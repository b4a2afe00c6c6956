package api

import (
	"io"
	"net/http"

	"outreach-crm/internal/intel"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	analyzer intel.Analyzer
}

func NewDocumentHandler(analyzer intel.Analyzer) *DocumentHandler {
	return &DocumentHandler{analyzer: analyzer}
}

// OCR extracts text and structured fields from an uploaded document image.
func (h *DocumentHandler) OCR(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	scan, err := h.analyzer.AnalyzeDocument(c.Request.Context(), data, mimeType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Document analysis failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, scan)
}
