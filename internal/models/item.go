package models

// Item is a catalog product known to the backend.
type Item struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Barcode  *string `json:"barcode"`
	Category *string `json:"category"`

	// Price is the last known price in minor currency units.
	Price int `json:"price"`
}

// PersonalListItem is an entry on the user's private shopping list.
type PersonalListItem struct {
	ID       int    `json:"id"`
	ItemID   int    `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
	AddedAt  string `json:"addedAt"`
}

// PurchaseHistoryItem is a completed purchase from the personal list.
type PurchaseHistoryItem struct {
	ID          int    `json:"id"`
	ItemID      int    `json:"itemId"`
	ItemName    string `json:"itemName"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
	PurchasedAt string `json:"purchasedAt"`
}
