package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// SupplierUseCase operaciones simples sobre proveedores y su vínculo con
// productos. La unicidad del proveedor preferido por producto se garantiza
// aquí (colaborador de catálogo), no en el motor de alertas.
type SupplierUseCase struct {
	repo        repository.SupplierRepository
	productRepo repository.ProductRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, productRepo repository.ProductRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, productRepo: productRepo}
}

// Create registra un proveedor.
func (uc *SupplierUseCase) Create(companyID, name, contactEmail string, leadTimeDays int) (*entity.Supplier, error) {
	if companyID == "" || name == "" || leadTimeDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         name,
		ContactEmail: contactEmail,
		LeadTimeDays: leadTimeDays,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(s); err != nil {
		return nil, err
	}
	return s, nil
}

// LinkProduct vincula proveedor y producto, validando empresa en ambos.
func (uc *SupplierUseCase) LinkProduct(companyID, productID, supplierID string, isPreferred bool, unitCost decimal.Decimal) error {
	if unitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	supplier, err := uc.repo.GetByID(supplierID)
	if err != nil || supplier == nil {
		return domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.LinkProduct(&entity.ProductSupplier{
		ProductID:   productID,
		SupplierID:  supplierID,
		IsPreferred: isPreferred,
		UnitCost:    unitCost,
		CreatedAt:   time.Now(),
	})
}

// ListByCompany lista los proveedores de la empresa.
func (uc *SupplierUseCase) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.repo.ListByCompany(companyID, limit, offset)
}
