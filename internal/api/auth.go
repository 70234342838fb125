package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmcdole/shelf/internal/domain"
)

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, false)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return c.parseTokens(body)
}

// Register creates a new account. The server answers 201 with no session.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/auth/register",
		registerRequest{Name: name, Email: email, Password: password}, false)
	return err
}

// RefreshToken rotates the token pair
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh-token", refreshRequest{RefreshToken: refreshToken}, false)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return c.parseTokens(body)
}

func (c *Client) parseTokens(body []byte) (domain.TokenPair, error) {
	var resp tokenResponse
	if err := c.decode(body, &resp); err != nil {
		return domain.TokenPair{}, err
	}
	if resp.AccessToken == "" {
		return domain.TokenPair{}, fmt.Errorf("no access token in response")
	}
	return domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// GetProfile returns a user profile
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/"+url.PathEscape(userID), nil, true)
	if err != nil {
		return nil, err
	}
	return c.parseUser(body)
}

// UpdateProfile changes name, email or password of a user
func (c *Client) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	req := profileUpdateRequest{Name: update.Name, Email: update.Email, Password: update.Password}
	body, err := c.doRequest(ctx, http.MethodPut, "/auth/update/"+url.PathEscape(userID), req, true)
	if err != nil {
		return nil, err
	}
	return c.parseUser(body)
}

// DeleteProfile removes a user account
func (c *Client) DeleteProfile(ctx context.Context, userID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/auth/delete/"+url.PathEscape(userID), nil, true)
	return err
}

// parseUser accepts both {"user": {...}} and a bare user object
func (c *Client) parseUser(body []byte) (*domain.UserProfile, error) {
	var env userEnvelope
	if err := c.decode(body, &env); err != nil {
		return nil, err
	}
	if env.User != nil {
		return mapUser(*env.User), nil
	}
	var u userDTO
	if err := c.decode(body, &u); err != nil {
		return nil, err
	}
	return mapUser(u), nil
}
