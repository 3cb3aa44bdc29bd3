package delivery

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/acesso-api/internal/config"
	"github.com/acesso-api/internal/domain"
)

// SMS delivers through AWS SNS to the subscriber's phone. Report
// notifications stay terse; there is no HTML over SMS.
type SMS struct {
	client snsPublisher
}

// snsPublisher is the slice of the SNS client this provider uses.
type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func NewSMS(cfg *config.Config) (*SMS, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &SMS{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *SMS) Name() string { return "sns" }

func (s *SMS) SendCode(ctx context.Context, to Recipient, code string) (string, error) {
	if to.Phone == "" {
		return "", fmt.Errorf("subscriber has no phone number")
	}
	msg := fmt.Sprintf("Seu código de acesso: %s. Expira em 30 minutos.", code)
	return s.publish(ctx, to.Phone, msg)
}

func (s *SMS) SendReport(ctx context.Context, to Recipient, meta domain.ReportMeta) (string, error) {
	if to.Phone == "" {
		return "", fmt.Errorf("subscriber has no phone number")
	}
	msg := fmt.Sprintf("Novo relatório disponível: %s - %s", domain.ReportTypeName(meta.Type), meta.Title)
	return s.publish(ctx, to.Phone, msg)
}

func (s *SMS) publish(ctx context.Context, phone, msg string) (string, error) {
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &phone,
		Message:     &msg,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	if out.MessageId != nil {
		return *out.MessageId, nil
	}
	return "", nil
}
