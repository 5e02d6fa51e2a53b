package repository

import "github.com/stockflow/stockflow-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// ListActiveIDsByCompany devuelve los IDs de productos activos de una
	// empresa (insumo del barrido de alertas).
	ListActiveIDsByCompany(companyID string) ([]string, error)
	Delete(id string) error
}
