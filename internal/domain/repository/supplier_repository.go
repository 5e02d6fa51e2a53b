package repository

import "github.com/stockflow/stockflow-api/internal/domain/entity"

// PreferredSupplier es el resultado de resolver el proveedor principal de un
// producto: preferido explícito primero, menor costo como desempate.
type PreferredSupplier struct {
	SupplierID   string
	Name         string
	ContactEmail string
	LeadTimeDays int
}

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error)
	LinkProduct(link *entity.ProductSupplier) error
	// GetPreferredByProduct devuelve el proveedor principal del producto
	// (is_preferred DESC, unit_cost ASC) o nil si no tiene proveedores.
	GetPreferredByProduct(productID string) (*PreferredSupplier, error)
}
