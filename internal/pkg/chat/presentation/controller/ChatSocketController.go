package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abrham-cyper/socket/internal/infrastructure/realtime"
	"github.com/abrham-cyper/socket/internal/pkg/signaling"
)

// ChatSocketController owns the websocket endpoint: room joins, disconnect
// cleanup and the signaling pass-through. Message persistence stays on the
// REST path; the socket only carries realtime traffic.
type ChatSocketController struct {
	registry *realtime.Registry
	relay    *signaling.Relay
	log      *slog.Logger
}

func NewChatSocketController(reg *realtime.Registry, relay *signaling.Relay, log *slog.Logger) *ChatSocketController {
	return &ChatSocketController{registry: reg, relay: relay, log: log}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth lands.
		return true
	},
}

// inboundFrame is one client event. Data carries event-specific fields:
// conversationId for joinConversation, targetAddress plus the opaque
// signaling body for offer/answer/ice-candidate.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ackFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type errorDetail struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the HTTP request and processes frames until the client
// disconnects. The peer address comes from the peer_id query parameter and
// defaults to the generated session ID.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(c.Query("peer_id"), ws)
		ctl.registry.Attach(conn)
		conn.Start()
		defer func() {
			ctl.registry.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, ackFrame{Event: "connected", Data: gin.H{"peerId": conn.PeerID()}})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.log.Debug("socket read", "peer", conn.PeerID(), "err", err)
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Event {
			case "joinConversation":
				ctl.handleJoin(conn, frame)
			case "offer", "answer", "ice-candidate":
				ctl.handleSignal(conn, frame)
			default:
				ctl.replyError(conn, "unsupported_event", "unknown event")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(conn *realtime.Connection, frame inboundFrame) {
	var join struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(frame.Data, &join); err != nil || join.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	ctl.registry.Join(join.ConversationID, conn)
	ctl.reply(conn, ackFrame{Event: "joined", Data: gin.H{"conversationId": join.ConversationID}})
}

func (ctl *ChatSocketController) handleSignal(conn *realtime.Connection, frame inboundFrame) {
	sig, err := signaling.ParseSignal(signaling.Kind(frame.Event), frame.Data)
	if err != nil {
		ctl.replyError(conn, "bad_request", err.Error())
		return
	}
	// Forward is best-effort: an offline target is not an error.
	if err := ctl.relay.Forward(sig); err != nil {
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, f ackFrame) {
	if payload, err := json.Marshal(f); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code, message string) {
	ctl.reply(conn, ackFrame{Event: "error", Data: errorDetail{Code: code, Error: message}})
}
