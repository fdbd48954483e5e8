package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
	"github.com/Son-2003/e-commerse-sub000/internal/store"
)

type chatAPI interface {
	Conversations(ctx context.Context) ([]domain.ConversationPreview, error)
	Messages(ctx context.Context, conversationID, after int64) ([]domain.ChatMessage, error)
	Send(ctx context.Context, conversationID int64, content string) (*domain.ChatMessage, error)
}

// ChatHandler relays one conversation over a websocket: the backlog first,
// then every new message as the remote chat service reports it. Outgoing
// messages arrive as JSON frames and are forwarded upstream; they come back
// down through the same polling stream as everything else.
type ChatHandler struct {
	chat     chatAPI
	store    *store.Store
	poll     time.Duration
	upgrader websocket.Upgrader
}

func NewChatHandler(chat chatAPI, store *store.Store, poll time.Duration) *ChatHandler {
	return &ChatHandler{
		chat:  chat,
		store: store,
		poll:  poll,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	previews, err := h.store.Conversations.Fetch(r.Context(), "inbox", func(ctx context.Context) (*[]domain.ConversationPreview, error) {
		list, err := h.chat.Conversations(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		respondFailure(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"conversations": *previews})
}

type outgoingFrame struct {
	Content string `json:"content"`
}

func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(r.URL.Query().Get("conversationId"), 10, 64)
	if err != nil || conversationID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_conversation_id", "conversationId must be a positive integer")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.readPump(ctx, cancel, conn, conversationID)
	h.writePump(ctx, conn, conversationID)
}

// readPump forwards client frames upstream until the connection drops.
func (h *ChatHandler) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, conversationID int64) {
	defer cancel()
	for {
		var frame outgoingFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Warn("chat read failed")
			}
			return
		}
		if frame.Content == "" {
			continue
		}
		if _, err := h.chat.Send(ctx, conversationID, frame.Content); err != nil {
			// Only writePump touches the socket; a lost message shows up
			// as a missing echo on the client.
			logrus.WithError(errors.Wrap(err, "forward chat message")).Error("chat send failed")
		}
	}
}

// writePump pushes the backlog and then polls for anything newer. Only
// this goroutine writes to the socket.
func (h *ChatHandler) writePump(ctx context.Context, conn *websocket.Conn, conversationID int64) {
	var lastID int64

	flush := func() error {
		messages, err := h.chat.Messages(ctx, conversationID, lastID)
		if err != nil {
			return errors.Wrap(err, "poll chat messages")
		}
		for _, message := range messages {
			if err := conn.WriteJSON(message); err != nil {
				return errors.Wrap(err, "write chat frame")
			}
			if message.ID > lastID {
				lastID = message.ID
			}
		}
		return nil
	}

	if err := flush(); err != nil {
		logrus.WithError(err).Warn("chat backlog failed")
		return
	}

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := flush(); err != nil {
				logrus.WithError(err).Warn("chat relay stopped")
				return
			}
		}
	}
}
