package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockflow/stockflow-api/internal/domain"
	"github.com/stockflow/stockflow-api/internal/domain/entity"
	"github.com/stockflow/stockflow-api/internal/domain/repository"
)

// CompanyUseCase operaciones simples sobre empresas (tenant).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create registra una empresa nueva.
func (uc *CompanyUseCase) Create(name, taxID string) (*entity.Company, error) {
	if name == "" || taxID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     taxID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return company, nil
}

// GetByID obtiene una empresa.
func (uc *CompanyUseCase) GetByID(id string) (*entity.Company, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// List lista empresas.
func (uc *CompanyUseCase) List(limit, offset int) ([]*entity.Company, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.repo.List(limit, offset)
}
