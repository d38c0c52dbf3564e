package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"homyhive/internal/adapters/external/chat"
	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/persistence/models"
	"homyhive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

type envelope struct {
	response.Response
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

type fakeNewsletter struct {
	emails map[string]bool
}

func (f *fakeNewsletter) Create(_ context.Context, sub *models.NewsletterSubscription) error {
	f.emails[sub.Email] = true
	sub.ID = uint(len(f.emails))
	return nil
}

func (f *fakeNewsletter) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return f.emails[email], nil
}

type fakeMail struct {
	sent []mailer.Message
}

func (f *fakeMail) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type fakeChat struct {
	got    chat.Query
	answer *chat.Answer
	err    error
}

func (f *fakeChat) Ask(_ context.Context, q chat.Query) (*chat.Answer, error) {
	f.got = q
	return f.answer, f.err
}
