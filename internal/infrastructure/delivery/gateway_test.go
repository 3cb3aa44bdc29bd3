package delivery

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/acesso-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) SendCode(ctx context.Context, to Recipient, code string) (string, error) {
	args := m.Called(ctx, to, code)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) SendReport(ctx context.Context, to Recipient, meta domain.ReportMeta) (string, error) {
	args := m.Called(ctx, to, meta)
	return args.String(0), args.Error(1)
}

// newTestGateway swaps the real sleep for one that records durations.
func newTestGateway(p Provider) (*Gateway, *[]time.Duration) {
	g := NewGateway(p)
	var slept []time.Duration
	g.sleep = func(d time.Duration) { slept = append(slept, d) }
	return g, &slept
}

var rcpt = Recipient{Name: "Ana Souza", Email: "ana@example.com", Phone: "11988887777"}

func TestSendCode_HappyPath(t *testing.T) {
	p := &mockProvider{}
	p.On("SendCode", mock.Anything, rcpt, "123456").Return("msg-1", nil).Once()

	g, slept := newTestGateway(p)
	res := g.SendCode(context.Background(), rcpt, "123456")

	assert.True(t, res.Success)
	assert.Equal(t, "msg-1", res.MessageID)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, *slept)
	p.AssertExpectations(t)
}

func TestSendCode_InvalidEmail_NoAttempt(t *testing.T) {
	p := &mockProvider{}
	g, _ := newTestGateway(p)

	res := g.SendCode(context.Background(), Recipient{Name: "X", Email: "not-an-email"}, "123456")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid email")
	p.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendCode_BadCodeLength(t *testing.T) {
	p := &mockProvider{}
	g, _ := newTestGateway(p)

	res := g.SendCode(context.Background(), rcpt, "12345")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "6 digits")
	p.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendCode_RetriesWithLinearBackoff(t *testing.T) {
	p := &mockProvider{}
	p.On("SendCode", mock.Anything, rcpt, "123456").Return("", errors.New("connection reset")).Twice()
	p.On("SendCode", mock.Anything, rcpt, "123456").Return("msg-2", nil).Once()

	g, slept := newTestGateway(p)
	res := g.SendCode(context.Background(), rcpt, "123456")

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
	p.AssertExpectations(t)
}

func TestSendCode_AllAttemptsFail(t *testing.T) {
	p := &mockProvider{}
	p.On("SendCode", mock.Anything, rcpt, "123456").
		Return("", &ProviderError{Status: http.StatusBadGateway}).Times(3)

	g, slept := newTestGateway(p)
	res := g.SendCode(context.Background(), rcpt, "123456")

	assert.False(t, res.Success)
	assert.Equal(t, 3, res.Attempts)
	assert.Len(t, *slept, 2, "no sleep after the final attempt")
	p.AssertExpectations(t)
}

func TestSendCode_TerminalErrorShortCircuits(t *testing.T) {
	p := &mockProvider{}
	p.On("SendCode", mock.Anything, rcpt, "123456").
		Return("", &ProviderError{Status: http.StatusNotFound, Msg: "endpoint not deployed"}).Once()

	g, slept := newTestGateway(p)
	res := g.SendCode(context.Background(), rcpt, "123456")

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, *slept, "404 must not trigger any backoff sleep")
	p.AssertExpectations(t)
}

func TestSendBatch_PartialFailure(t *testing.T) {
	subs := []domain.Subscriber{
		{Name: "Ana Souza", Email: "ana@example.com"},
		{Name: "Bruno Lima", Email: "broken-email"},
		{Name: "Clara Dias", Email: "clara@example.com"},
	}
	meta := domain.ReportMeta{Type: "brasil", Title: "Carteira Semanal"}

	p := &mockProvider{}
	p.On("SendReport", mock.Anything, mock.MatchedBy(func(r Recipient) bool { return r.Email == "ana@example.com" }), meta).
		Return("m1", nil).Once()
	p.On("SendReport", mock.Anything, mock.MatchedBy(func(r Recipient) bool { return r.Email == "clara@example.com" }), meta).
		Return("m3", nil).Once()

	g, _ := newTestGateway(p)
	res := g.SendBatch(context.Background(), subs, meta)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Bruno Lima", res.Errors[0].Subscriber)
	p.AssertExpectations(t)
}

func TestSendBatch_ProviderFailureDoesNotAbort(t *testing.T) {
	subs := []domain.Subscriber{
		{Name: "Ana Souza", Email: "ana@example.com"},
		{Name: "Bruno Lima", Email: "bruno@example.com"},
	}
	meta := domain.ReportMeta{Type: "quant", Title: "Sinais da Semana"}

	p := &mockProvider{}
	p.On("SendReport", mock.Anything, mock.MatchedBy(func(r Recipient) bool { return r.Email == "ana@example.com" }), meta).
		Return("", errors.New("mailbox unavailable")).Once()
	p.On("SendReport", mock.Anything, mock.MatchedBy(func(r Recipient) bool { return r.Email == "bruno@example.com" }), meta).
		Return("m2", nil).Once()

	g, _ := newTestGateway(p)
	res := g.SendBatch(context.Background(), subs, meta)

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Ana Souza", res.Errors[0].Subscriber)
	p.AssertExpectations(t)
}

func TestSendBatch_DelayOnlyBetweenSends(t *testing.T) {
	subs := []domain.Subscriber{
		{Name: "Ana Souza", Email: "ana@example.com"},
		{Name: "Bruno Lima", Email: "bruno@example.com"},
	}
	meta := domain.ReportMeta{Type: "global", Title: "Panorama"}

	p := &mockProvider{}
	p.On("SendReport", mock.Anything, mock.Anything, meta).Return("m", nil).Twice()

	g, slept := newTestGateway(p)
	res := g.SendBatch(context.Background(), subs, meta)

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, *slept,
		"one delay between the two sends, none after the last")
	p.AssertExpectations(t)
}
