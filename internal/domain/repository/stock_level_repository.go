package repository

import "github.com/stockflow/stockflow-api/internal/domain/entity"

// StockLevelRepository define el puerto para el stock denormalizado por
// producto+bodega. Las filas solo las escribe el motor de ledger; GetForUpdate
// serializa las escrituras concurrentes sobre el mismo par (SELECT FOR UPDATE).
type StockLevelRepository interface {
	Get(productID, warehouseID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila para update; si no existe devuelve una en
	// cero (creación perezosa al primer movimiento).
	GetForUpdate(productID, warehouseID string) (*entity.StockLevel, error)
	Upsert(level *entity.StockLevel) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockLevel, error)
	ListByProduct(productID string) ([]*entity.StockLevel, error)
}
