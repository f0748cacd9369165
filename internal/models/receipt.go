package models

// Receipt is a previously scanned purchase receipt stored server-side.
type Receipt struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	ScannedAt string `json:"scannedAt"`
}

// ReceiptData is the parsed content of a scanned receipt, as resolved by
// the backend through the tax-authority lookup service.
type ReceiptData struct {
	// TotalSum is the receipt total in major currency units.
	TotalSum float64 `json:"totalSum"`

	// Seller is the organization name on the receipt.
	Seller string `json:"seller"`

	// RetailPlace is the store name, when present.
	RetailPlace string `json:"retailPlace"`

	// DateTime is the purchase timestamp from the receipt.
	DateTime string `json:"dateTime"`

	Items []ReceiptItem `json:"items"`
}

// ReceiptItem is one line item on a scanned receipt.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Sum      float64 `json:"sum"`
}

// ScanResult pairs the stored receipt record with its parsed data.
type ScanResult struct {
	Receipt Receipt     `json:"receipt"`
	Data    ReceiptData `json:"data"`
	Message string      `json:"message"`
}
