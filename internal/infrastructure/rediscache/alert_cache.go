package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stockflow/stockflow-api/internal/application/alerts"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
)

var _ alerts.AlertCache = (*AlertCache)(nil)

// AlertCache guarda en Redis el último snapshot de alertas por empresa y
// bodega, serializado como JSON con TTL.
type AlertCache struct {
	rdb *redis.Client
}

// NewAlertCache construye el cache sobre un cliente Redis ya configurado.
func NewAlertCache(rdb *redis.Client) *AlertCache {
	return &AlertCache{rdb: rdb}
}

func alertKey(companyID, warehouseID string) string {
	if warehouseID == "" {
		warehouseID = "all"
	}
	return fmt.Sprintf("alerts:%s:%s", companyID, warehouseID)
}

// Get devuelve el snapshot cacheado. El segundo valor indica hit.
func (c *AlertCache) Get(ctx context.Context, companyID, warehouseID string) ([]entity.ReorderAlert, bool, error) {
	raw, err := c.rdb.Get(ctx, alertKey(companyID, warehouseID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get alerts: %w", err)
	}
	var list []entity.ReorderAlert
	if err := json.Unmarshal(raw, &list); err != nil {
		// snapshot corrupto, tratarlo como miss
		return nil, false, nil
	}
	return list, true, nil
}

// Set guarda el snapshot con el TTL dado.
func (c *AlertCache) Set(ctx context.Context, companyID, warehouseID string, alertList []entity.ReorderAlert, ttl time.Duration) error {
	raw, err := json.Marshal(alertList)
	if err != nil {
		return fmt.Errorf("marshal alert snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, alertKey(companyID, warehouseID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set alerts: %w", err)
	}
	return nil
}
