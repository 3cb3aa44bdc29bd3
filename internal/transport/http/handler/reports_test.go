package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acesso-api/internal/domain"
)

type mockReportService struct{ mock.Mock }

func (m *mockReportService) Publish(ctx context.Context, meta domain.ReportMeta, filename string, file io.Reader) (*domain.Report, error) {
	args := m.Called(ctx, meta, filename, file)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportService) ListByType(ctx context.Context, reportType string) ([]domain.Report, error) {
	args := m.Called(ctx, reportType)
	if r := args.Get(0); r != nil {
		return r.([]domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportService) Latest(ctx context.Context, reportType string) (*domain.Report, error) {
	args := m.Called(ctx, reportType)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportService) DownloadURL(ctx context.Context, reportID string) (string, error) {
	args := m.Called(ctx, reportID)
	return args.String(0), args.Error(1)
}

func (m *mockReportService) UpdateMeta(ctx context.Context, reportID string, meta domain.ReportMeta) error {
	args := m.Called(ctx, reportID, meta)
	return args.Error(0)
}

func (m *mockReportService) Unpublish(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

func TestListReports_ByType(t *testing.T) {
	svc := new(mockReportService)
	svc.On("ListByType", mock.Anything, "quant").Return([]domain.Report{
		{ReportID: "r2", Type: "quant", Title: "Semana 34", PublishedAt: time.Now()},
		{ReportID: "r1", Type: "quant", Title: "Semana 33", PublishedAt: time.Now().Add(-7 * 24 * time.Hour)},
	}, nil)
	h := NewReportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/?type=quant", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []domain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ReportID)
}

func TestListReports_MissingType(t *testing.T) {
	h := NewReportHandler(new(mockReportService))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLatestReport_NoneMapsTo404(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Latest", mock.Anything, "opcoes").Return(nil, domain.ErrNotFound)
	h := NewReportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/?type=opcoes", nil)
	rr := httptest.NewRecorder()
	h.Latest(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDownload_ReturnsPresignedURL(t *testing.T) {
	svc := new(mockReportService)
	svc.On("DownloadURL", mock.Anything, "r1").Return("https://bucket.example/presigned", nil)
	h := NewReportHandler(svc)

	r := chi.NewRouter()
	r.Get("/reports/{id}/download", h.Download)
	req := httptest.NewRequest(http.MethodGet, "/reports/r1/download", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got downloadEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "https://bucket.example/presigned", got.URL)
}

func TestPublish_DecodesBase64(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Publish", mock.Anything,
		domain.ReportMeta{Type: "brasil", Title: "Carteira Agosto", Summary: "s"},
		"carteira.pdf", mock.Anything,
	).Return(&domain.Report{ReportID: "r9", Type: "brasil"}, nil)
	h := NewReportHandler(svc)

	body, _ := json.Marshal(map[string]string{
		"type":           "brasil",
		"title":          "Carteira Agosto",
		"summary":        "s",
		"filename":       "carteira.pdf",
		"content_base64": base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 dummy")),
	})
	rr := postJSON(t, h.Publish, string(body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got domain.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "r9", got.ReportID)
	svc.AssertExpectations(t)
}

func TestPublish_RejectsBadBase64(t *testing.T) {
	h := NewReportHandler(new(mockReportService))

	rr := postJSON(t, h.Publish, `{"type":"brasil","title":"t","filename":"f.pdf","content_base64":"!!!not-base64!!!"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublish_UnknownTypeMapsTo400(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrBadRequest)
	h := NewReportHandler(svc)

	body := `{"type":"nope","title":"t","filename":"f.pdf","content_base64":"` +
		base64.StdEncoding.EncodeToString([]byte("x")) + `"}`
	rr := postJSON(t, h.Publish, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateReport(t *testing.T) {
	svc := new(mockReportService)
	svc.On("UpdateMeta", mock.Anything, "r1", domain.ReportMeta{Title: "Novo título"}).Return(nil)
	h := NewReportHandler(svc)

	r := chi.NewRouter()
	r.Put("/reports/{id}", h.Update)
	req := httptest.NewRequest(http.MethodPut, "/reports/r1", strings.NewReader(`{"title":"Novo título"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestDeleteReport(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Unpublish", mock.Anything, "r1").Return(nil)
	h := NewReportHandler(svc)

	r := chi.NewRouter()
	r.Delete("/reports/{id}", h.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/reports/r1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestDeleteReport_UnknownMapsTo404(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Unpublish", mock.Anything, "nope").Return(domain.ErrNotFound)
	h := NewReportHandler(svc)

	r := chi.NewRouter()
	r.Delete("/reports/{id}", h.Delete)
	req := httptest.NewRequest(http.MethodDelete, "/reports/nope", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReportTypes_Catalog(t *testing.T) {
	h := NewReportHandler(new(mockReportService))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Types(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Contains(t, got, "quant")
	assert.Contains(t, got, "rendafixa")
}
