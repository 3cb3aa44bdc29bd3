package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/acesso-api/internal/codestore"
	"github.com/acesso-api/internal/domain"
)

// CodeRepo is the shared access-code store for multi-instance deployments.
// The one-live-code-per-CPF invariant is enforced server-side with
// conditional writes, and DynamoDB's native TTL reaps expired entries, so
// no store-wide sweep is needed here.
type CodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

var _ codestore.Store = (*CodeRepo)(nil)

func NewCodeRepo(client *dynamodb.Client, tableName string) *CodeRepo {
	return &CodeRepo{client: client, tableName: tableName}
}

func (r *CodeRepo) HasActive(ctx context.Context, cpf string) (bool, error) {
	entry, err := r.get(ctx, cpf)
	if err != nil || entry == nil {
		return false, err
	}
	if entry.Expired(time.Now()) {
		r.evict(ctx, cpf)
		return false, nil
	}
	return true, nil
}

func (r *CodeRepo) Generate(ctx context.Context, cpf string) (string, error) {
	code, err := codestore.NewCode()
	if err != nil {
		return "", err
	}
	now := time.Now()
	entry := &domain.AccessCode{
		CPF:       cpf,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.CodeTTL).Unix(),
	}
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return "", fmt.Errorf("marshal access code: %w", err)
	}

	// Atomic check-and-insert: only write when no row exists or the
	// existing one has already expired (TTL reaping is lazy).
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(cpf) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return "", fmt.Errorf("active code already pending for this CPF: %w", domain.ErrConflict)
		}
		return "", fmt.Errorf("put access code: %w", err)
	}
	return code, nil
}

func (r *CodeRepo) Validate(ctx context.Context, cpf, code string) (bool, error) {
	entry, err := r.get(ctx, cpf)
	if err != nil || entry == nil {
		return false, err
	}
	if entry.Expired(time.Now()) {
		r.evict(ctx, cpf)
		return false, nil
	}
	if entry.Code != code {
		return false, nil
	}

	// Conditional delete keeps consumption single-use even when two
	// redemptions race: only one delete matches the stored code.
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("cpf", cpf),
		ConditionExpression: aws.String("code = :code"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil // consumed by a concurrent redemption
		}
		return false, fmt.Errorf("consume access code: %w", err)
	}
	return true, nil
}

func (r *CodeRepo) get(ctx context.Context, cpf string) (*domain.AccessCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("cpf", cpf),
	})
	if err != nil {
		return nil, fmt.Errorf("get access code: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var entry domain.AccessCode
	if err := attributevalue.UnmarshalMap(out.Item, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal access code: %w", err)
	}
	return &entry, nil
}

// evict removes an expired row ahead of the TTL reaper; best effort.
func (r *CodeRepo) evict(ctx context.Context, cpf string) {
	_, _ = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("cpf", cpf),
	})
}
