package alerts

import (
	"context"
	"time"

	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

// Notifier publica el lote de alertas de una corrida hacia el colaborador de
// notificaciones. La entrega y el formato final son ajenos a este sistema.
type Notifier interface {
	PublishAlerts(ctx context.Context, companyID string, alerts []entity.ReorderAlert) error
}

// AlertCache guarda el snapshot de alertas por empresa con TTL.
type AlertCache interface {
	Get(ctx context.Context, companyID, warehouseID string) ([]entity.ReorderAlert, bool, error)
	Set(ctx context.Context, companyID, warehouseID string, alerts []entity.ReorderAlert, ttl time.Duration) error
}
