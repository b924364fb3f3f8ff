package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	qport "github.com/abrham-cyper/socket/internal/infrastructure/queue/port"
)

// NotifyOfflineTaskType is the queue task name for messages whose receiver
// held no live connection at broadcast time.
const NotifyOfflineTaskType = "chat:notify_offline"

// NotifyOfflineTaskPayload is the JSON payload transported via the queue,
// deliberately decoupled from the domain types.
type NotifyOfflineTaskPayload struct {
	ConversationID   string `json:"conversationId"`
	SenderUsername   string `json:"senderUsername"`
	ReceiverUsername string `json:"receiverUsername"`
	Preview          string `json:"preview"`
}

// EnqueueNotifyOffline queues a best-effort notification for an offline
// receiver on the dedicated notify queue.
func EnqueueNotifyOffline(ctx context.Context, q qport.Client, p NotifyOfflineTaskPayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	opts := qport.EnqueueOption{Queue: "notify", MaxRetry: 10, UniqueTTL: time.Minute}
	_, err = q.Enqueue(ctx, qport.Task{Type: NotifyOfflineTaskType, Payload: b}, opts)
	return err
}

// RegisterNotifyOfflineTask binds the handler to the worker.
// TODO: hand the payload to a push/email provider once one is selected;
// until then delivery attempts are only logged.
func RegisterNotifyOfflineTask(srv qport.Server, log *slog.Logger) {
	srv.Register(NotifyOfflineTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyOfflineTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload: retrying cannot help.
			return nil
		}
		log.Info("offline receiver notification",
			"conversation", p.ConversationID,
			"receiver", p.ReceiverUsername,
			"sender", p.SenderUsername,
		)
		return nil
	})
}
