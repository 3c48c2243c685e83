package models

// User is the display record resolved from the user service. It only
// enriches responses; derivation correctness never depends on it.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
