package models

// User is the profile of a registered account as returned by the backend.
type User struct {
	// ID is the unique numeric identifier of the user.
	ID int `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique, used for login).
	Email string `json:"email"`

	// Role is the account role ("standard" unless elevated server-side).
	Role string `json:"role"`

	// CreatedAt is the ISO-8601 creation timestamp assigned by the server.
	CreatedAt string `json:"createdAt"`
}
