package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// CategoryUseCase operaciones simples sobre categorías de productos.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create registra una categoría; thresholdDefault puede ser nil.
func (uc *CategoryUseCase) Create(companyID, name, code string, thresholdDefault *decimal.Decimal) (*entity.Category, error) {
	if companyID == "" || name == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := uc.repo.GetByCompanyAndCode(companyID, code); existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cat := &entity.Category{
		ID:                       uuid.New().String(),
		CompanyID:                companyID,
		Name:                     name,
		Code:                     code,
		LowStockThresholdDefault: thresholdDefault,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := uc.repo.Create(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ListByCompany lista las categorías de la empresa.
func (uc *CategoryUseCase) ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.repo.ListByCompany(companyID, limit, offset)
}
