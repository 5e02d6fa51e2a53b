package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/application/dto"
	"github.com/stockflow/stockflow-api/internal/application/inventory"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// ProductUseCase operaciones de catálogo sobre productos. La creación puede
// sembrar inventario inicial en una bodega a través del ledger (entrada
// adjustment), nunca escribiendo stock_levels directo.
type ProductUseCase struct {
	repo          repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	applyUC       *inventory.ApplyTransactionUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	applyUC *inventory.ApplyTransactionUseCase,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, warehouseRepo: warehouseRepo, applyUC: applyUC}
}

// Create valida y registra un producto. SKU se normaliza a mayúsculas y es
// único por empresa. Si viene bodega con cantidad inicial positiva, se
// registra una entrada adjustment en el ledger a continuación.
func (uc *ProductUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateProductRequest) (*entity.Product, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	name := strings.TrimSpace(in.Name)
	if companyID == "" || sku == "" || len(sku) > 50 || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.LowStockThreshold != nil && in.LowStockThreshold.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := uc.repo.GetByCompanyAndSKU(companyID, sku); existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.WarehouseID != "" {
		if in.InitialQuantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		wh, _ := uc.warehouseRepo.GetByID(in.WarehouseID)
		if wh == nil || wh.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		SKU:               sku,
		Name:              name,
		Description:       strings.TrimSpace(in.Description),
		Price:             in.Price,
		IsBundle:          in.IsBundle,
		CategoryID:        in.CategoryID,
		LowStockThreshold: in.LowStockThreshold,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	if in.WarehouseID != "" && in.InitialQuantity.GreaterThan(decimal.Zero) {
		_, err := uc.applyUC.Apply(ctx, inventory.TransactionInputDTO{
			CompanyID:   companyID,
			UserID:      userID,
			ProductID:   product.ID,
			WarehouseID: in.WarehouseID,
			Type:        entity.LedgerTypeAdjustment,
			Delta:       in.InitialQuantity,
			Notes:       "inventario inicial",
		})
		if err != nil {
			return nil, err
		}
	}
	return product, nil
}

// GetByID obtiene un producto validando empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// Update actualiza campos de catálogo del producto.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		product.Description = strings.TrimSpace(in.Description)
	}
	if !in.Price.IsZero() {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price
	}
	if in.CategoryID != "" {
		product.CategoryID = in.CategoryID
	}
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.LowStockThreshold = in.LowStockThreshold
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListByCompany lista los productos de la empresa.
func (uc *ProductUseCase) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.repo.ListByCompany(companyID, limit, offset)
}
