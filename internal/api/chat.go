package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/packetapp/packet-go/internal/models"
)

// ChatHistory fetches the full message log of a group chat, in
// server-assigned order.
func (c *Client) ChatHistory(ctx context.Context, groupID int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := c.withRefresh(ctx, "chat_history", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/chat/%d/messages", groupID), token, nil, &messages, true)
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteMessage removes a message server-side by its token.
func (c *Client) DeleteMessage(ctx context.Context, messageToken string) error {
	return c.withRefresh(ctx, "delete_message", func(token string) error {
		return c.doJSON(ctx, http.MethodDelete, "/messages/"+messageToken, token, nil, nil, true)
	})
}

// UserName resolves a user ID to a display name.
func (c *Client) UserName(ctx context.Context, userID int) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	err := c.withRefresh(ctx, "user_name", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d/name", userID), token, nil, &resp, true)
	})
	if err != nil {
		return "", err
	}
	return resp.Name, nil
}

// ChatUserNames resolves all sender IDs in a group chat to display names.
func (c *Client) ChatUserNames(ctx context.Context, groupID int) (map[int]string, error) {
	var raw map[string]string
	err := c.withRefresh(ctx, "chat_user_names", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/chat/%d/user-names", groupID), token, nil, &raw, true)
	})
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(raw))
	for id, name := range raw {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue // skip malformed keys rather than failing the whole map
		}
		names[n] = name
	}
	return names, nil
}
