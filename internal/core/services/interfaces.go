package services

import (
	"context"

	"homyhive/internal/adapters/external/chat"
	"homyhive/internal/adapters/external/imgbb"
	"homyhive/internal/adapters/external/mailer"
	"homyhive/internal/adapters/external/razorpay"
	"homyhive/internal/adapters/external/supabase"
	"homyhive/internal/core/domain"
)

// Outbound collaborators. Each is satisfied by a client under
// internal/adapters/external and faked in tests.

// PaymentGateway creates orders and verifies checkout signatures
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// ImageUploader stores a file and returns its public url
type ImageUploader interface {
	Upload(ctx context.Context, filename string, content []byte) (*imgbb.Image, error)
}

// Geocoder resolves a free-text location
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*domain.Geometry, error)
}

// EmailSender delivers transactional email
type EmailSender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// SMSSender delivers text messages
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// ChatBackend answers chat questions
type ChatBackend interface {
	Ask(ctx context.Context, q chat.Query) (*chat.Answer, error)
}

// IdentityProvider is the external auth service
type IdentityProvider interface {
	Configured() bool
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// Upload is a file received from a multipart form
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}
