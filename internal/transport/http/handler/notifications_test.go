package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acesso-api/internal/domain"
)

type mockNotifyService struct{ mock.Mock }

func (m *mockNotifyService) BroadcastReport(ctx context.Context, meta domain.ReportMeta) (*domain.BatchResult, error) {
	args := m.Called(ctx, meta)
	if r := args.Get(0); r != nil {
		return r.(*domain.BatchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestBroadcastReport_ReturnsTally(t *testing.T) {
	svc := new(mockNotifyService)
	svc.On("BroadcastReport", mock.Anything,
		domain.ReportMeta{Type: "quant", Title: "Semana 35", Summary: "resumo"},
	).Return(&domain.BatchResult{Total: 3, Successful: 2, Failed: 1,
		Errors: []domain.BatchError{{Subscriber: "Bruno Lima", Reason: "invalid email"}},
	}, nil)
	h := NewNotificationHandler(svc)

	rr := postJSON(t, h.BroadcastReport, `{"type":"quant","title":"Semana 35","summary":"resumo"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got domain.BatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Failed)
	svc.AssertExpectations(t)
}

func TestBroadcastReport_UnknownType(t *testing.T) {
	svc := new(mockNotifyService)
	svc.On("BroadcastReport", mock.Anything, mock.Anything).Return(nil, domain.ErrBadRequest)
	h := NewNotificationHandler(svc)

	rr := postJSON(t, h.BroadcastReport, `{"type":"nope","title":"t"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBroadcastReport_MissingTitle(t *testing.T) {
	h := NewNotificationHandler(new(mockNotifyService))

	rr := postJSON(t, h.BroadcastReport, `{"type":"quant"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
