package http

import (
	"context"

	"github.com/acesso-api/internal/application/report"
	"github.com/acesso-api/internal/codestore"
	"github.com/acesso-api/internal/domain"
	"github.com/acesso-api/internal/infrastructure/delivery"
	jwtinfra "github.com/acesso-api/internal/infrastructure/jwt"
)

// Directory is the subscriber directory surface the router requires.
type Directory interface {
	FindByCPF(ctx context.Context, cpf string) (*domain.Subscriber, error)
	ActiveSubscribers(ctx context.Context) ([]domain.Subscriber, error)
}

// DeliveryGateway is the outbound messaging surface the router requires.
type DeliveryGateway interface {
	SendCode(ctx context.Context, to delivery.Recipient, code string) domain.DeliveryResult
	SendBatch(ctx context.Context, subs []domain.Subscriber, meta domain.ReportMeta) domain.BatchResult
}

// Deps holds the infrastructure dependencies the router wires into the
// application services.
type Deps struct {
	Directory   Directory
	CodeStore   codestore.Store
	Gateway     DeliveryGateway
	JWTProvider *jwtinfra.Provider
	ReportRepo  report.Repo
	ObjectStore report.ObjectStore
}
