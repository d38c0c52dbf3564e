// Package supabase calls the Supabase Auth REST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/metrics"

	"github.com/tidwall/gjson"
)

const defaultTimeout = 15 * time.Second

// User is the identity returned by the provider
type User struct {
	ID          string
	Email       string
	Phone       string
	DisplayName string
}

// Session is the result of a password grant
type Session struct {
	AccessToken string
	ExpiresIn   int64
	User        User
}

// Client talks to <url>/auth/v1
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient creates an auth client
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether a project URL was provided
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// SignInWithPassword performs the password grant. Rejected credentials
// yield ErrInvalidCredentials.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: identity provider is not configured", domain.ErrGateway)
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	case status < 200 || status >= 300:
		metrics.RecordUpstreamFailure("supabase")
		return nil, fmt.Errorf("%w: token status %d", domain.ErrGateway, status)
	}

	reply := gjson.ParseBytes(body)
	return &Session{
		AccessToken: reply.Get("access_token").String(),
		ExpiresIn:   reply.Get("expires_in").Int(),
		User:        parseUser(reply.Get("user")),
	}, nil
}

// GetUser resolves an access token. An invalid token yields ErrUnauthenticated.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: identity provider is not configured", domain.ErrGateway)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, domain.ErrUnauthenticated
	case status < 200 || status >= 300:
		metrics.RecordUpstreamFailure("supabase")
		return nil, fmt.Errorf("%w: user status %d", domain.ErrGateway, status)
	}

	user := parseUser(gjson.ParseBytes(body))
	if user.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return &user, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamFailure("supabase")
		return nil, 0, fmt.Errorf("%w: identity provider: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read identity reply: %v", domain.ErrGateway, err)
	}
	return body, resp.StatusCode, nil
}

func parseUser(v gjson.Result) User {
	u := User{
		ID:    v.Get("id").String(),
		Email: v.Get("email").String(),
		Phone: v.Get("phone").String(),
	}
	for _, key := range []string{"user_metadata.full_name", "user_metadata.name", "user_metadata.username"} {
		if name := v.Get(key).String(); name != "" {
			u.DisplayName = name
			break
		}
	}
	if u.DisplayName == "" && u.Email != "" {
		u.DisplayName = strings.SplitN(u.Email, "@", 2)[0]
	}
	return u
}
