package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fuelflow/fuelops-backend/internal/notify"
	"github.com/fuelflow/fuelops-backend/pkg/db/models"
)

// Repository defines persistence operations for fuel orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.FuelOrder) (*models.FuelOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FuelOrder, error)
	MarkPlaced(ctx context.Context, id uuid.UUID, placedAt time.Time) error
}

// CodeStore holds placement codes and their verification counters.
type CodeStore interface {
	SaveCode(ctx context.Context, orderID, code string, ttl time.Duration) error
	GetCode(ctx context.Context, orderID string) (string, error)
	ClearCode(ctx context.Context, orderID string) error
	IncrAttempts(ctx context.Context, orderID string, ttl time.Duration) (int64, error)
	BeginCooldown(ctx context.Context, orderID string, window time.Duration) (bool, error)
}

// SMSPublisher queues outbound SMS dispatches.
type SMSPublisher interface {
	Publish(ctx context.Context, msg notify.SMSMessage) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
