package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/packetapp/packet-go/internal/models"
)

// JoinGroupResult is the outcome of redeeming an invite code.
type JoinGroupResult struct {
	GroupID   int    `json:"groupId"`
	GroupName string `json:"groupName"`
	Message   string `json:"message"`
}

// GroupSummaries lists the user's groups with their latest activity and
// unseen counts.
func (c *Client) GroupSummaries(ctx context.Context) ([]models.GroupSummary, error) {
	var summaries []models.GroupSummary
	err := c.withRefresh(ctx, "group_summaries", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/groups/summaries", token, nil, &summaries, true)
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// GroupItems lists the shared shopping list of one group.
func (c *Client) GroupItems(ctx context.Context, groupID int) ([]models.GroupListItem, error) {
	var items []models.GroupListItem
	err := c.withRefresh(ctx, "group_items", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d/items", groupID), token, nil, &items, true)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddGroupItem puts a catalog item on a group's list. budget may be nil.
func (c *Client) AddGroupItem(ctx context.Context, groupID, itemID, quantity, priority int, budget *int) (*models.GroupListItem, error) {
	req := map[string]any{
		"itemId":   itemID,
		"quantity": quantity,
		"priority": priority,
		"budget":   budget,
	}
	var item models.GroupListItem
	err := c.withRefresh(ctx, "add_group_item", func(token string) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/items", groupID), token, req, &item, true)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// BuyItem marks a group list item as purchased by the signed-in user at
// the given price (minor units).
func (c *Client) BuyItem(ctx context.Context, groupID, itemID, price, quantity int) error {
	userID, ok := c.store.UserID()
	if !ok {
		return ErrNotLoggedIn
	}
	req := map[string]any{
		"groupId":  groupID,
		"boughtBy": userID,
		"price":    price,
		"quantity": quantity,
	}
	return c.withRefresh(ctx, "buy_item", func(token string) error {
		return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/group-list-items/%d/buy", itemID), token, req, nil, true)
	})
}

// GroupActivities lists a group's activity feed, newest first. Unseen
// entries carry IsViewed=false until marked via MarkItemsViewed or
// MarkAllViewed.
func (c *Client) GroupActivities(ctx context.Context, groupID int) ([]models.Activity, error) {
	var activities []models.Activity
	err := c.withRefresh(ctx, "group_activities", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d/activities", groupID), token, nil, &activities, true)
	})
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// MarkItemsViewed marks the given group activities as seen.
func (c *Client) MarkItemsViewed(ctx context.Context, groupID int, itemIDs []int) error {
	req := map[string]any{"itemIds": itemIDs}
	return c.withRefresh(ctx, "mark_viewed", func(token string) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/mark-viewed", groupID), token, req, nil, true)
	})
}

// MarkAllViewed marks every unseen activity in the group as seen.
func (c *Client) MarkAllViewed(ctx context.Context, groupID int) error {
	return c.withRefresh(ctx, "mark_all_viewed", func(token string) error {
		return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/mark-all-viewed", groupID), token, nil, nil, true)
	})
}

// JoinGroup redeems an invite code. A 400 carries the backend's reason
// (unknown or expired code).
func (c *Client) JoinGroup(ctx context.Context, inviteCode string) (*JoinGroupResult, error) {
	var result JoinGroupResult
	err := c.withRefresh(ctx, "join_group", func(token string) error {
		return c.doJSON(ctx, http.MethodPost, "/join-group", token,
			map[string]string{"inviteCode": inviteCode}, &result, true)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchItems searches the shared item catalog by name.
func (c *Client) SearchItems(ctx context.Context, query string) ([]models.Item, error) {
	var items []models.Item
	path := "/items/search?q=" + url.QueryEscape(query)
	err := c.withRefresh(ctx, "search_items", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, path, token, nil, &items, true)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
