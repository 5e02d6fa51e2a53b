package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// WarehouseUseCase operaciones simples sobre bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create registra una bodega para la empresa.
func (uc *WarehouseUseCase) Create(companyID, name, address string) (*entity.Warehouse, error) {
	if companyID == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// GetByID obtiene una bodega validando la empresa.
func (uc *WarehouseUseCase) GetByID(companyID, id string) (*entity.Warehouse, error) {
	wh, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return wh, nil
}

// ListByCompany lista las bodegas de la empresa.
func (uc *WarehouseUseCase) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.repo.ListByCompany(companyID, limit, offset)
}
