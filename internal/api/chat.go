package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

type ChatClient struct {
	c *Client
}

func NewChatClient(c *Client) *ChatClient {
	return &ChatClient{c: c}
}

func (ch *ChatClient) Conversations(ctx context.Context) ([]domain.ConversationPreview, error) {
	var previews []domain.ConversationPreview
	if err := ch.c.get(ctx, "/chat/conversations", nil, &previews); err != nil {
		return nil, err
	}
	return previews, nil
}

// Messages returns a conversation's history, newest last. A non-zero after
// fetches only messages past that id, which is how the relay polls.
func (ch *ChatClient) Messages(ctx context.Context, conversationID, after int64) ([]domain.ChatMessage, error) {
	query := url.Values{}
	query.Set("conversationId", strconv.FormatInt(conversationID, 10))
	if after > 0 {
		query.Set("after", strconv.FormatInt(after, 10))
	}

	var messages []domain.ChatMessage
	if err := ch.c.get(ctx, "/chat/messages", query, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (ch *ChatClient) Send(ctx context.Context, conversationID int64, content string) (*domain.ChatMessage, error) {
	body := map[string]any{
		"conversation_id": conversationID,
		"content":         content,
	}
	var sent domain.ChatMessage
	if err := ch.c.post(ctx, "/chat/messages", body, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}
