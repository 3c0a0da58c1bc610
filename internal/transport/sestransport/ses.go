// Package sestransport delivers composed emails via the AWS SES v2 API,
// passing the rendered MIME message through as raw content.
package sestransport

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/mkprime/forms-backend/internal/compose"
	"github.com/mkprime/forms-backend/internal/transport"
)

// Config holds AWS SES parameters.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SendEmailAPI is the interface for the SES v2 SendEmail operation.
// Used for testing with mock implementations.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Transport sends mail through AWS SES v2.
type Transport struct {
	client SendEmailAPI
}

// New creates an SES transport using the default AWS credential chain,
// optionally overridden by static credentials from config.
func New(ctx context.Context, cfg Config) (*Transport, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Transport{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a transport with a custom client, used for testing.
func NewWithClient(client SendEmailAPI) *Transport {
	return &Transport{client: client}
}

// Name returns the transport name.
func (t *Transport) Name() string {
	return "ses"
}

// Deliver sends the rendered message as raw MIME content. A single
// attempt; SES errors map onto the shared delivery taxonomy.
func (t *Transport) Deliver(ctx context.Context, email *compose.Email) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(email.FromAddr),
		Destination: &types.Destination{
			ToAddresses: email.Recipients(),
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: email.Bytes()},
		},
	}

	if _, err := t.client.SendEmail(ctx, input); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", transport.ErrTimeout, err)
		}
		var rejected *types.MessageRejected
		if errors.As(err, &rejected) {
			return fmt.Errorf("%w: %v", transport.ErrRejected, err)
		}
		return fmt.Errorf("%w: %v", transport.ErrConnect, err)
	}
	return nil
}
