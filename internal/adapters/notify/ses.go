package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"eventintel/config"
)

// sesNotifier delivers the alert to the sales mailbox via AWS SES when no
// chat relay is configured.
type sesNotifier struct {
	client      *ses.Client
	fromAddress string
	toAddress   string
}

func newSESNotifier(cfg config.NotifyConfig) (*sesNotifier, error) {
	if cfg.FromAddress == "" || cfg.SalesAddress == "" {
		return nil, fmt.Errorf("ses notifier requires from and sales addresses")
	}
	awsCfg := aws.Config{
		Region: cfg.SES.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.SES.AccessKeyID,
				cfg.SES.SecretAccessKey,
				"",
			),
		),
	}
	return &sesNotifier{
		client:      ses.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		toAddress:   cfg.SalesAddress,
	}, nil
}

func (s *sesNotifier) Send(ctx context.Context, channel, destination, message string) (string, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(fmt.Sprintf("Key lead alert (%s %s)", channel, destination)),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(message),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("send alert via SES: %w", err)
	}
	return aws.ToString(result.MessageId), nil
}
