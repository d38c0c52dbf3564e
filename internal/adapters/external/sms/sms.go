// Package sms sends text messages through Amazon SNS.
package sms

import (
	"context"
	"fmt"

	"homyhive/internal/pkg/logger"
	"homyhive/internal/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the subset of the SNS client used here
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers SMS. Without an SNS client it only logs them.
type Sender struct {
	api SNSAPI
	log logger.Logger
}

func New(api SNSAPI, log logger.Logger) *Sender {
	return &Sender{api: api, log: log}
}

// NewSNS loads the default AWS configuration for region
func NewSNS(ctx context.Context, region string, log logger.Logger) (*Sender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(sns.NewFromConfig(cfg), log), nil
}

// Send publishes message to an E.164 phone number
func (s *Sender) Send(ctx context.Context, phone, message string) error {
	if phone == "" {
		return fmt.Errorf("sms: empty phone number")
	}
	if s.api == nil {
		s.log.Info("sms delivery disabled", map[string]interface{}{"phone": phone})
		return nil
	}

	_, err := s.api.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	if err != nil {
		metrics.RecordUpstreamFailure("sns")
		return fmt.Errorf("publish sms: %w", err)
	}
	return nil
}
