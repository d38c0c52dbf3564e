package services

import (
	"context"
	"errors"
	"testing"

	"homyhive/internal/adapters/external/chat"
	"homyhive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportInbox(t *testing.T) {
	tests := map[string]string{
		"general":     "guest-support@homyhive.com",
		"Booking":     "guest-support@homyhive.com",
		"payment":     "payments@homyhive.com",
		"hosting":     "host-support@homyhive.com",
		"partnership": "partnerships@homyhive.com",
		"press":       "press@homyhive.com",
		"safety":      "trust-safety@homyhive.com",
		"emergency":   "emergency@homyhive.com",
		"":            "guest-support@homyhive.com",
	}
	for category, want := range tests {
		assert.Equal(t, want, SupportInbox(category), category)
	}
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSupportService(env.newsletter, env.mail, env.validate, env.log)

	inbox, err := svc.Contact(context.Background(), &ContactInput{
		Name:     "Meera",
		Email:    "meera@example.com",
		Category: "payment",
		Subject:  "Refund",
		Message:  "My refund has not arrived.",
	})
	require.NoError(t, err)
	assert.Equal(t, "payments@homyhive.com", inbox)
	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "[Support] Refund", env.mail.sent[0].Subject)

	_, err = svc.Contact(context.Background(), &ContactInput{Name: "Meera", Email: "meera@example.com"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"message", "subject"}, verr.Fields)
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSupportService(env.newsletter, env.mail, env.validate, env.log)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, &NewsletterInput{Email: " Reader@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", sub.Email)

	_, err = svc.Subscribe(ctx, &NewsletterInput{Email: "reader@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	_, err = svc.Subscribe(ctx, &NewsletterInput{Email: "nope"})
	assert.True(t, domain.IsValidation(err))
}

func TestChatAsk(t *testing.T) {
	backend := &fakeChat{answer: &chat.Answer{Reply: "Goa is lovely in December."}}
	svc := NewChatService(backend, newTestEnv(t).log)
	k := 3

	answer, err := svc.Ask(context.Background(), &AskInput{Message: " where to go? ", K: &k})
	require.NoError(t, err)
	assert.Equal(t, "Goa is lovely in December.", answer.Reply)
	assert.Equal(t, "where to go?", backend.got.Query)
	assert.Equal(t, &k, backend.got.K)

	_, err = svc.Ask(context.Background(), &AskInput{Message: "  "})
	assert.True(t, domain.IsValidation(err))

	backend.err = errors.New("upstream 500")
	_, err = svc.Ask(context.Background(), &AskInput{Message: "hi"})
	assert.Error(t, err)

	assert.True(t, svc.Config().Enabled)
	assert.False(t, NewChatService(nil, newTestEnv(t).log).Config().Enabled)
}

func TestChatVisible(t *testing.T) {
	assert.True(t, ChatVisible("/listings"))
	assert.True(t, ChatVisible("/"))
	assert.False(t, ChatVisible("/login"))
	assert.False(t, ChatVisible("/admin/dashboard"))
	assert.False(t, ChatVisible("/api/notifications"))
	assert.False(t, ChatVisible("/signup"))
}
