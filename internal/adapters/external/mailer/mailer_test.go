package mailer

import (
	"context"
	"errors"
	"testing"

	"homyhive/internal/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, f.err
}

func TestSendBuildsInput(t *testing.T) {
	api := &fakeSES{}
	m := New(api, "no-reply@homyhive.com", logger.NewTestLogger(t))

	err := m.Send(context.Background(), Message{To: "guest@example.com", Subject: "Booked", Text: "See you"})
	require.NoError(t, err)

	assert.Equal(t, []string{"guest@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Booked", aws.ToString(api.input.Message.Subject.Data))
	assert.Equal(t, "See you", aws.ToString(api.input.Message.Body.Html.Data))
	assert.Equal(t, "no-reply@homyhive.com", aws.ToString(api.input.Source))
}

func TestSendDisabledLogsOnly(t *testing.T) {
	m := New(nil, "from", logger.NewTestLogger(t))
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.c"}))
}

func TestSendPropagatesError(t *testing.T) {
	m := New(&fakeSES{err: errors.New("throttled")}, "from", logger.NewNoOpLogger())
	assert.Error(t, m.Send(context.Background(), Message{To: "a@b.c"}))
	assert.Error(t, m.Send(context.Background(), Message{}))
}
