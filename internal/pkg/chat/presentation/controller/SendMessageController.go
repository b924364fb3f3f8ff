package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	qport "github.com/abrham-cyper/socket/internal/infrastructure/queue/port"
	"github.com/abrham-cyper/socket/internal/infrastructure/realtime"
	chat "github.com/abrham-cyper/socket/internal/pkg/chat/application/domain"
	"github.com/abrham-cyper/socket/internal/pkg/chat/application/task"
	"github.com/abrham-cyper/socket/internal/pkg/chat/application/usecase"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
)

// SendMessageController persists a message and fans it out to the
// conversation's room. The REST write and the socket broadcast are coupled
// here on purpose: every member of the room, the sender's own realtime
// connection included, sees the newMessage event.
type SendMessageController struct {
	UC       *usecase.SendMessageUseCase
	Realtime *realtime.Registry
	Queue    qport.Client // may be nil; offline notifications are then skipped
	Log      *slog.Logger
}

func NewSendMessageController(repo repository.ChatRepository, reg *realtime.Registry, q qport.Client, log *slog.Logger) *SendMessageController {
	return &SendMessageController{
		UC:       usecase.NewSendMessageUseCase(repo),
		Realtime: reg,
		Queue:    q,
		Log:      log,
	}
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	SenderID       string `json:"senderId" binding:"required"`
	ReceiverID     string `json:"receiverId" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// newMessageEvent is the realtime envelope emitted to room members whenever
// a message is persisted.
type newMessageEvent struct {
	Event string       `json:"event"`
	Data  chat.Message `json:"data"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: req.ConversationID,
			SenderID:       req.SenderID,
			ReceiverID:     req.ReceiverID,
			Body:           req.Message,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		h.fanout(ctx, *msg)

		c.JSON(http.StatusCreated, msg)
	}
}

func (h *SendMessageController) fanout(ctx context.Context, msg chat.Message) {
	payload, err := json.Marshal(newMessageEvent{Event: "newMessage", Data: msg})
	if err != nil {
		h.Log.Error("encode newMessage event", "err", err)
		return
	}

	delivered := h.Realtime.Broadcast(msg.ConversationID, payload)
	h.Log.Debug("newMessage broadcast", "conversation", msg.ConversationID, "delivered", delivered)

	if h.Queue == nil || h.Realtime.PeerOnline(msg.ReceiverUsername) {
		return
	}
	preview := msg.Body
	if len(preview) > 120 {
		// back up to a rune boundary so the preview stays valid UTF-8
		cut := 120
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut]
	}
	err = task.EnqueueNotifyOffline(ctx, h.Queue, task.NotifyOfflineTaskPayload{
		ConversationID:   msg.ConversationID,
		SenderUsername:   msg.SenderUsername,
		ReceiverUsername: msg.ReceiverUsername,
		Preview:          preview,
	})
	if err != nil {
		h.Log.Warn("enqueue offline notification", "err", err)
	}
}
