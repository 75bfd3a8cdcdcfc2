package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/internal/app"
	"pdfchat/internal/transport/http/response"
)

type ChatHandler struct {
	ragService       *app.RAGService
	apiKeyConfigured bool
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

func NewChatHandler(ragService *app.RAGService, apiKeyConfigured bool) *ChatHandler {
	return &ChatHandler{
		ragService:       ragService,
		apiKeyConfigured: apiKeyConfigured,
	}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	answer, err := h.ragService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNoDocuments):
			response.Error(c, http.StatusBadRequest, response.CodeNotFound,
				"no PDF files have been processed, please upload PDFs first")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				fmt.Sprintf("error processing question: %v", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (h *ChatHandler) Status(c *gin.Context) {
	report, err := h.ragService.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"database_connected": false,
			"error":              err.Error(),
			"api_key_configured": h.apiKeyConfigured,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"database_connected":   true,
		"document_chunks":      report.ChunkCount,
		"chat_history_entries": report.HistoryCount,
		"api_key_configured":   h.apiKeyConfigured,
	})
}
