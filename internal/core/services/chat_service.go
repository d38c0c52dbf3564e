package services

import (
	"context"
	"strings"

	"homyhive/internal/adapters/external/chat"
	"homyhive/internal/core/domain"
	"homyhive/internal/pkg/logger"
)

// Paths the chat widget never appears on
var chatHiddenPrefixes = []string{"/login", "/signin", "/signup", "/register", "/admin", "/api/"}

// ChatConfig drives the chat widget
type ChatConfig struct {
	Enabled     bool     `json:"enabled"`
	Endpoint    string   `json:"endpoint"`
	Title       string   `json:"title"`
	Greeting    string   `json:"greeting"`
	HiddenPaths []string `json:"hiddenPaths"`
}

// AskInput is one chat question
type AskInput struct {
	Message     string   `json:"message"`
	K           *int     `json:"k,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatService forwards questions to the chat backend
type ChatService struct {
	backend ChatBackend
	log     logger.Logger
}

// NewChatService creates a new chat service. A nil backend disables chat.
func NewChatService(backend ChatBackend, log logger.Logger) *ChatService {
	return &ChatService{backend: backend, log: log}
}

// Ask forwards input to the backend
func (s *ChatService) Ask(ctx context.Context, input *AskInput) (*chat.Answer, error) {
	msg := strings.TrimSpace(input.Message)
	if msg == "" {
		return nil, domain.NewValidationError("message is required", "message")
	}
	if s.backend == nil {
		return nil, domain.ErrGateway
	}

	answer, err := s.backend.Ask(ctx, chat.Query{Query: msg, K: input.K, Temperature: input.Temperature})
	if err != nil {
		s.log.Warn("chat backend failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return answer, nil
}

// Config returns the widget configuration
func (s *ChatService) Config() ChatConfig {
	return ChatConfig{
		Enabled:     s.backend != nil,
		Endpoint:    "/api/chat",
		Title:       "HomyHive Assistant",
		Greeting:    "Hi! Ask me anything about stays, bookings or hosting.",
		HiddenPaths: append([]string{}, chatHiddenPrefixes...),
	}
}

// ChatVisible reports whether the widget is shown on path
func ChatVisible(path string) bool {
	for _, prefix := range chatHiddenPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}
