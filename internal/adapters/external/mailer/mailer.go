// Package mailer sends transactional email through Amazon SES.
package mailer

import (
	"context"
	"fmt"

	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages. Without an SES client it only logs them.
type Mailer struct {
	api  SESAPI
	from string
	log  logger.Logger
}

// New creates a mailer around api; api may be nil
func New(api SESAPI, from string, log logger.Logger) *Mailer {
	return &Mailer{api: api, from: from, log: log}
}

// NewSES loads the default AWS configuration for region
func NewSES(ctx context.Context, region, from string, log logger.Logger) (*Mailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(ses.NewFromConfig(cfg), from, log), nil
}

// Enabled reports whether messages actually leave the process
func (m *Mailer) Enabled() bool {
	return m.api != nil
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: empty recipient")
	}
	if m.api == nil {
		m.log.Info("email delivery disabled", map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return nil
	}

	html := msg.HTML
	if html == "" {
		html = msg.Text
	}

	_, err := m.api.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text)},
				Html: &types.Content{Data: aws.String(html)},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		metrics.RecordUpstreamFailure("ses")
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
