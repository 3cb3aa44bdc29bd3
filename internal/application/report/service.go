// Package report manages the published report archive: files in S3,
// metadata in DynamoDB, downloads via short-lived presigned URLs.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/pkg/id"
)

// Presigned URLs stay valid just long enough for the client to follow the
// redirect; the session token is the real gate.
const downloadURLTTL = 15 * time.Minute

// Repo is the slice of the report metadata store this service uses.
type Repo interface {
	Put(ctx context.Context, rep *domain.Report) error
	Get(ctx context.Context, reportID string) (*domain.Report, error)
	ListByType(ctx context.Context, reportType string) ([]domain.Report, error)
	Update(ctx context.Context, reportID string, updates map[string]interface{}) error
	Delete(ctx context.Context, reportID string) error
}

// ObjectStore is the slice of the file store this service uses.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service interface {
	Publish(ctx context.Context, meta domain.ReportMeta, filename string, file io.Reader) (*domain.Report, error)
	ListByType(ctx context.Context, reportType string) ([]domain.Report, error)
	Latest(ctx context.Context, reportType string) (*domain.Report, error)
	DownloadURL(ctx context.Context, reportID string) (string, error)
	UpdateMeta(ctx context.Context, reportID string, meta domain.ReportMeta) error
	Unpublish(ctx context.Context, reportID string) error
}

type service struct {
	repo  Repo
	store ObjectStore
}

func NewService(repo Repo, store ObjectStore) Service {
	return &service{repo: repo, store: store}
}

func (s *service) Publish(ctx context.Context, meta domain.ReportMeta, filename string, file io.Reader) (*domain.Report, error) {
	if _, ok := domain.ReportTypes[meta.Type]; !ok {
		return nil, fmt.Errorf("unknown report type %q: %w", meta.Type, domain.ErrBadRequest)
	}

	rep := &domain.Report{
		ReportID:    id.New(),
		Type:        meta.Type,
		Title:       meta.Title,
		Summary:     meta.Summary,
		S3Key:       fmt.Sprintf("reports/%s/%s-%s", meta.Type, id.New(), filename),
		PublishedAt: time.Now().UTC(),
	}
	if _, err := s.store.Upload(ctx, rep.S3Key, file); err != nil {
		return nil, fmt.Errorf("upload report file: %w", err)
	}
	if err := s.repo.Put(ctx, rep); err != nil {
		return nil, fmt.Errorf("store report metadata: %w", err)
	}
	return rep, nil
}

func (s *service) ListByType(ctx context.Context, reportType string) ([]domain.Report, error) {
	if _, ok := domain.ReportTypes[reportType]; !ok {
		return nil, fmt.Errorf("unknown report type %q: %w", reportType, domain.ErrBadRequest)
	}
	return s.repo.ListByType(ctx, reportType)
}

func (s *service) Latest(ctx context.Context, reportType string) (*domain.Report, error) {
	reports, err := s.ListByType(ctx, reportType)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("no reports of type %q: %w", reportType, domain.ErrNotFound)
	}
	return &reports[0], nil
}

func (s *service) DownloadURL(ctx context.Context, reportID string) (string, error) {
	rep, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, rep.S3Key, downloadURLTTL)
}

func (s *service) UpdateMeta(ctx context.Context, reportID string, meta domain.ReportMeta) error {
	if _, err := s.repo.Get(ctx, reportID); err != nil {
		return err
	}
	updates := map[string]interface{}{
		"title":   meta.Title,
		"summary": meta.Summary,
	}
	return s.repo.Update(ctx, reportID, updates)
}

// Unpublish removes a report: file first, then metadata. A report whose
// file is already gone still loses its metadata row.
func (s *service) Unpublish(ctx context.Context, reportID string) error {
	rep, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, rep.S3Key); err != nil {
		return fmt.Errorf("delete report file: %w", err)
	}
	return s.repo.Delete(ctx, reportID)
}
