package models

// Priority levels for group list items. Lower ordinal means more urgent.
const (
	PriorityHigh   = 0
	PriorityMedium = 1
	PriorityLow    = 2
)

// GroupSummary is the per-group projection shown on the main screen:
// the group, its most recent activity and the number of unseen events.
type GroupSummary struct {
	GroupID      int            `json:"groupId"`
	GroupName    string         `json:"groupName"`
	LastActivity *GroupActivity `json:"lastActivity"`
	UnseenCount  int            `json:"unseenCount"`
}

// GroupActivity describes the latest event in a group (who added or
// bought which item).
type GroupActivity struct {
	Type     string `json:"type"`
	UserName string `json:"userName"`
	ItemName string `json:"itemName"`
	ItemID   int    `json:"itemId"`
}

// GroupListItem is one entry on a group's shared shopping list.
// The server owns it; the client only triggers mutations (add, buy,
// mark-viewed) and may flip IsViewed optimistically.
type GroupListItem struct {
	ID       int    `json:"id"`
	GroupID  int    `json:"groupId"`
	ItemID   int    `json:"itemId"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`

	// Priority is one of PriorityHigh, PriorityMedium, PriorityLow.
	Priority int `json:"priority"`

	// Budget is the optional spending cap in minor currency units.
	Budget *int `json:"budget"`

	IsViewed bool `json:"isViewed"`
}

// Activity is a full activity-feed entry for a group.
type Activity struct {
	ID        int    `json:"id"`
	GroupID   int    `json:"groupId"`
	UserID    int    `json:"userId"`
	UserName  string `json:"userName"`
	Type      string `json:"type"` // "ADDED" or "BOUGHT"
	ItemID    int    `json:"itemId"`
	ItemName  string `json:"itemName"`
	Quantity  int    `json:"quantity"`
	IsViewed  bool   `json:"isViewed"`
	CreatedAt string `json:"createdAt"`
}
