package models

import "github.com/google/uuid"

// ChatMessage is one message in a group chat.
//
// Token is the identity of the message: it is generated on the client before
// any network round trip, echoed back by the server, and used to deduplicate
// the local log when the echo arrives. Arrival order is never used as identity.
type ChatMessage struct {
	// Token is a client-generated UUID, globally unique per message.
	Token string `json:"token"`

	GroupID  int    `json:"groupId"`
	SenderID int    `json:"senderId"`
	Text     string `json:"text"`

	// Timestamp is an ISO-8601 string. Used for display grouping only;
	// the log is never resorted by it.
	Timestamp string `json:"timestamp"`

	// ReplyToToken references the token of the message being replied to,
	// if any. It must name a token that exists (or once existed) in the
	// same group's log.
	ReplyToToken *string `json:"replyToToken,omitempty"`
}

// NewChatMessage builds an outbound message with a fresh token.
func NewChatMessage(groupID, senderID int, text, timestamp string, replyToToken *string) ChatMessage {
	return ChatMessage{
		Token:        uuid.NewString(),
		GroupID:      groupID,
		SenderID:     senderID,
		Text:         text,
		Timestamp:    timestamp,
		ReplyToToken: replyToToken,
	}
}
