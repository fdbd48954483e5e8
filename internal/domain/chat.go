package domain

import "time"

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
}

// ConversationPreview is one row of the inbox listing: the peer plus the
// latest message.
type ConversationPreview struct {
	ConversationID int64     `json:"conversation_id"`
	PeerID         int64     `json:"peer_id"`
	PeerName       string    `json:"peer_name"`
	LastMessage    string    `json:"last_message"`
	LastSentAt     time.Time `json:"last_sent_at"`
	Unread         int       `json:"unread"`
}
