package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hamza-bely/4hybd/internal/models"
)

// UserResolver resolves display records. Failures are isolated per
// user by the callers: a missing username degrades to a placeholder
// and never aborts a derivation.
type UserResolver interface {
	UserByID(ctx context.Context, userID int64) (models.User, error)
}

// Authenticator is the login surface of the user service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (AuthResponse, error)
}

// AuthResponse is the upstream login result.
type AuthResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// UserClient talks to the user service.
type UserClient struct {
	api httpAPI
}

// NewUserClient builds a UserClient for the given base URL.
func NewUserClient(baseURL string, httpClient *http.Client) *UserClient {
	return &UserClient{api: newHTTPAPI("user", baseURL, httpClient)}
}

// UserByID fetches a single user record.
func (c *UserClient) UserByID(ctx context.Context, userID int64) (models.User, error) {
	var user struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.api.getJSON(ctx, fmt.Sprintf("/users/%d", userID), &user); err != nil {
		return models.User{}, err
	}
	return models.User{ID: user.ID, Username: user.Name, Email: user.Email}, nil
}

// Login authenticates against the user service.
func (c *UserClient) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.api.postJSON(ctx, "/auth/login", body, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

var (
	_ UserResolver  = (*UserClient)(nil)
	_ Authenticator = (*UserClient)(nil)
)
