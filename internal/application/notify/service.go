// Package notify broadcasts new-report notifications to every active
// subscriber in the directory.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acesso-api/internal/domain"
)

// Directory is the slice of the subscriber directory this service uses.
type Directory interface {
	ActiveSubscribers(ctx context.Context) ([]domain.Subscriber, error)
}

// BatchSender fans a report notification out to many subscribers.
type BatchSender interface {
	SendBatch(ctx context.Context, subs []domain.Subscriber, meta domain.ReportMeta) domain.BatchResult
}

type Service interface {
	BroadcastReport(ctx context.Context, meta domain.ReportMeta) (*domain.BatchResult, error)
}

type service struct {
	directory Directory
	sender    BatchSender
}

func NewService(directory Directory, sender BatchSender) Service {
	return &service{directory: directory, sender: sender}
}

// BroadcastReport fetches the current active subscriber list and sends the
// notification to each. Per-recipient failures are inside the result; only
// an unreadable directory or an unknown report type fails the call.
func (s *service) BroadcastReport(ctx context.Context, meta domain.ReportMeta) (*domain.BatchResult, error) {
	if _, ok := domain.ReportTypes[meta.Type]; !ok {
		return nil, fmt.Errorf("unknown report type %q: %w", meta.Type, domain.ErrBadRequest)
	}

	subs, err := s.directory.ActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}

	result := s.sender.SendBatch(ctx, subs, meta)
	slog.Info("report broadcast finished",
		"type", meta.Type, "total", result.Total,
		"successful", result.Successful, "failed", result.Failed)
	return &result, nil
}
