// Package chat forwards questions to the retrieval-augmented chat backend.
package chat

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

const defaultTimeout = 30 * time.Second

// Query is one question for the backend
type Query struct {
	Query       string   `json:"query"`
	K           *int     `json:"k,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Answer is the normalized backend reply
type Answer struct {
	Reply      string      `json:"reply"`
	SourceUsed interface{} `json:"source_used"`
	Retrieved  interface{} `json:"retrieved"`
}

// Client posts queries to BaseURL + QueryRoute
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a chat backend client
func NewClient(baseURL, route string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + route,
		http:     &http.Client{Timeout: timeout},
	}
}

// Ask sends q and extracts answer, reply or text from the response
func (c *Client) Ask(ctx context.Context, q Query) (*Answer, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamFailure("chat")
		return nil, fmt.Errorf("%w: chat backend: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read chat reply: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordUpstreamFailure("chat")
		return nil, fmt.Errorf("%w: chat backend status %d: %s", domain.ErrGateway, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if !gjson.ValidBytes(body) {
		return &Answer{Reply: strings.TrimSpace(string(body))}, nil
	}

	reply := gjson.ParseBytes(body)
	if reply.Type == gjson.String {
		return &Answer{Reply: reply.String()}, nil
	}

	answer := &Answer{}
	for _, key := range []string{"answer", "reply", "text"} {
		if v := reply.Get(key).String(); v != "" {
			answer.Reply = v
			break
		}
	}
	if v := reply.Get("source_used"); v.Exists() && v.Type != gjson.Null {
		answer.SourceUsed = v.Value()
	}
	if v := reply.Get("retrieved"); v.Exists() && v.Type != gjson.Null {
		answer.Retrieved = v.Value()
	}
	return answer, nil
}
