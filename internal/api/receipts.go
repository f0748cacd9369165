package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/packetapp/packet-go/internal/models"
)

// ScanReceipt submits a raw receipt QR payload for resolution through the
// tax-authority lookup. This is the one form-encoded endpoint; the backend
// forwards the payload verbatim to the lookup service.
func (c *Client) ScanReceipt(ctx context.Context, qrRaw string) (*models.ScanResult, error) {
	form := url.Values{}
	form.Set("qrraw", qrRaw)

	var result models.ScanResult
	err := c.withRefresh(ctx, "scan_receipt", func(token string) error {
		return c.do(ctx, http.MethodPost, "/receipts/scan", token,
			"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &result, true)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmReceiptItems attaches selected receipt line items to a group list
// (groupID set) or to the personal list (groupID nil). The backend applies
// the batch atomically; there is no partial-success reporting.
func (c *Client) ConfirmReceiptItems(ctx context.Context, receiptID int, items []models.ReceiptItem, groupID *int) error {
	req := map[string]any{
		"receiptId": receiptID,
		"items":     items,
		"groupId":   groupID,
	}
	return c.withRefresh(ctx, "confirm_receipt_items", func(token string) error {
		return c.doJSON(ctx, http.MethodPost, "/receipts/confirm", token, req, nil, true)
	})
}

// ReceiptHistory lists the user's previously scanned receipts with their
// parsed data.
func (c *Client) ReceiptHistory(ctx context.Context) ([]models.ScanResult, error) {
	var receipts []models.ScanResult
	err := c.withRefresh(ctx, "receipt_history", func(token string) error {
		return c.doJSON(ctx, http.MethodGet, "/receipts/history", token, nil, &receipts, true)
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
