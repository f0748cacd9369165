package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/packetapp/packet-go/internal/models"
)

// PersonalList fetches the user's private shopping list.
func (c *Client) PersonalList(ctx context.Context) ([]models.PersonalListItem, error) {
	var items []models.PersonalListItem
	err := c.withRefresh(ctx, "personal_list", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/personal-list", token, nil, &items, true)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddPersonalItem puts an item on the private list. itemID is nil for
// free-text items not in the catalog.
func (c *Client) AddPersonalItem(ctx context.Context, itemID *int, itemName string, quantity, price int) (*models.PersonalListItem, error) {
	req := map[string]any{
		"itemId":   itemID,
		"itemName": itemName,
		"quantity": quantity,
		"price":    price,
	}
	var item models.PersonalListItem
	err := c.withRefresh(ctx, "add_personal_item", func(token string) error {
		return c.doJSON(ctx, http.MethodPost, "/personal-list", token, req, &item, true)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// MarkPurchased moves a personal list entry into purchase history at the
// given price (minor units).
func (c *Client) MarkPurchased(ctx context.Context, entryID, price int) error {
	req := map[string]any{"price": price}
	return c.withRefresh(ctx, "mark_purchased", func(token string) error {
		return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/personal-list/%d/purchase", entryID), token, req, nil, true)
	})
}

// PurchaseHistory fetches completed purchases from the personal list.
func (c *Client) PurchaseHistory(ctx context.Context) ([]models.PurchaseHistoryItem, error) {
	var items []models.PurchaseHistoryItem
	err := c.withRefresh(ctx, "purchase_history", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/personal-list/history", token, nil, &items, true)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
