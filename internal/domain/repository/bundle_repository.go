package repository

import "github.com/stockflow/stockflow-api/internal/domain/entity"

// BundleRepository define el puerto de persistencia para componentes de bundle.
// ListComponents se usa también dentro de la transacción de inserción para la
// detección de ciclos en escritura.
type BundleRepository interface {
	// LockPair bloquea las filas de producto del bundle y del componente en
	// orden determinista dentro de la transacción actual. Dos altas
	// concurrentes sobre los mismos productos se serializan y el DFS de
	// ciclos ve solo estado commiteado.
	LockPair(bundleID, componentID string) error
	AddComponent(component *entity.BundleComponent) error
	RemoveComponent(bundleID, componentID string) error
	ListComponents(bundleID string) ([]*entity.BundleComponent, error)
}
