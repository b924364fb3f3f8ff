package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/abrham-cyper/socket/internal/infrastructure/cache/port"
	"github.com/abrham-cyper/socket/internal/pkg/chat/application/usecase"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// ResolveConversationController handles the create-or-get conversation
// endpoint (one controller per endpoint).
type ResolveConversationController struct {
	UC *usecase.ResolveConversationUseCase
}

func NewResolveConversationController(repo repository.ChatRepository, cache cacheport.Cache, ttl time.Duration) *ResolveConversationController {
	return &ResolveConversationController{UC: usecase.NewResolveConversationUseCase(repo, cache, ttl)}
}

type resolveConversationRequest struct {
	SenderID   string `json:"senderId" binding:"required"`
	ReceiverID string `json:"receiverId" binding:"required"`
}

func (h *ResolveConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resolveConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		id, err := h.UC.Execute(ctx, usecase.ResolveConversationInput{
			SenderID:   req.SenderID,
			ReceiverID: req.ReceiverID,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"conversationId": id})
	}
}
