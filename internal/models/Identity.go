package models

// Identity is who a bearer token speaks for. Every token decode path
// produces this one shape.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsGuest  bool   `json:"is_guest,omitempty"`
}
