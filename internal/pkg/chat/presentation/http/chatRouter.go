package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/abrham-cyper/socket/internal/infrastructure/cache/port"
	qport "github.com/abrham-cyper/socket/internal/infrastructure/queue/port"
	"github.com/abrham-cyper/socket/internal/infrastructure/realtime"
	"github.com/abrham-cyper/socket/internal/pkg/chat/presentation/controller"
	repository "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/port"
	"github.com/abrham-cyper/socket/internal/pkg/signaling"
)

// Deps bundles everything the chat endpoints need. Cache and Queue may be
// nil; the affected features degrade gracefully.
type Deps struct {
	Repo     repository.ChatRepository
	Cache    cacheport.Cache
	Queue    qport.Client
	Realtime *realtime.Registry
	Log      *slog.Logger
	CacheTTL time.Duration
}

// RegisterRoutes registers chat-related endpoints under the given group,
// constructing one controller per endpoint and binding it directly to its
// route.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	resolveCtl := controller.NewResolveConversationController(d.Repo, d.Cache, d.CacheTTL)
	listConvCtl := controller.NewListConversationsController(d.Repo)
	sendMsgCtl := controller.NewSendMessageController(d.Repo, d.Realtime, d.Queue, d.Log)
	listMsgCtl := controller.NewListMessagesController(d.Repo)

	relay := signaling.NewRelay(d.Realtime, d.Log)
	socketCtl := controller.NewChatSocketController(d.Realtime, relay, d.Log)

	// POST /api/v1/conversation -> create-or-get the conversation for a pair
	g.POST("/conversation", resolveCtl.Handle())

	// GET /api/v1/conversation/:userId -> conversations the user is part of
	g.GET("/conversation/:userId", listConvCtl.Handle())

	// POST /api/v1/message -> persist a message and fan it out to the room
	g.POST("/message", sendMsgCtl.Handle())

	// GET /api/v1/message/:conversationId -> the conversation's log
	g.GET("/message/:conversationId", listMsgCtl.Handle())

	// GET /api/v1/chat/ws -> websocket for rooms and call signaling
	g.GET("/chat/ws", socketCtl.Handle())
}
