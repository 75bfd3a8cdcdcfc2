package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
	"pdfchat/internal/pkg/pdfextract"
	"pdfchat/internal/transport/http/response"
)

const maxPDFSize = 10 << 20 // 10 MB per file

type DocumentHandler struct {
	ragService *app.RAGService
}

func NewDocumentHandler(ragService *app.RAGService) *DocumentHandler {
	return &DocumentHandler{ragService: ragService}
}

// Upload accepts multipart PDF files, extracts their text in file order then
// page order, and ingests the result as one batch.
func (h *DocumentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files uploaded")
		return
	}

	for _, header := range files {
		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("file %s is not a PDF", header.Filename))
			return
		}
		if header.Size > maxPDFSize {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("file %s exceeds the %d MB limit", header.Filename, maxPDFSize>>20))
			return
		}
	}

	var text strings.Builder
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				fmt.Sprintf("open file %s failed: %v", header.Filename, err))
			return
		}
		extracted, err := pdfextract.ExtractText(f)
		_ = f.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest,
				fmt.Sprintf("extract text from %s failed: %v", header.Filename, err))
			return
		}
		text.WriteString(extracted)
	}

	result, err := h.ragService.Ingest(c.Request.Context(), app.IngestInput{
		DocumentName: files[0].Filename,
		Text:         text.String(),
	})
	if err != nil {
		if errors.Is(err, app.ErrEmptyDocument) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				fmt.Sprintf("error processing PDFs: %v", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "PDFs processed successfully! You can now ask questions.",
		"chunks_count": result.ChunkCount,
	})
}
