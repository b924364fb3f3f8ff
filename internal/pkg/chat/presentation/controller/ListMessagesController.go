package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abrham-cyper/socket/internal/pkg/chat/application/usecase"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesController handles fetching a conversation's log (one
// controller per endpoint).
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(repo repository.ChatRepository) *ListMessagesController {
	return &ListMessagesController{UC: usecase.NewListMessagesUseCase(repo)}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.ListMessagesInput{ConversationID: conversationID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, msgs)
	}
}
