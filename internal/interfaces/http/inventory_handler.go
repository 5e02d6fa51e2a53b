package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stockflow/stockflow-api/internal/application/dto"
	"github.com/stockflow/stockflow-api/internal/application/inventory"
	"github.com/stockflow/stockflow-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de transacciones de stock,
// traslados, reservas y consultas (protegido).
type InventoryHandler struct {
	applyUC   *inventory.ApplyTransactionUseCase
	reserveUC *inventory.ReservationUseCase
	queryUC   *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	applyUC *inventory.ApplyTransactionUseCase,
	reserveUC *inventory.ReservationUseCase,
	queryUC *inventory.StockQueryUseCase,
) *InventoryHandler {
	return &InventoryHandler{applyUC: applyUC, reserveUC: reserveUC, queryUC: queryUC}
}

// RegisterTransaction registra una transacción de stock en el ledger.
func (h *InventoryHandler) RegisterTransaction(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entryID, err := h.applyUC.Apply(c.Context(), inventory.TransactionInputDTO{
		CompanyID:     companyID,
		UserID:        userID,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          in.Type,
		Delta:         in.Delta,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
	})
	if err != nil {
		return h.mapApplyError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ledger_entry_id": entryID})
}

// Transfer traslada stock entre dos bodegas de la empresa.
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txID, err := h.applyUC.Transfer(c.Context(), inventory.TransferInputDTO{
		CompanyID:       companyID,
		UserID:          userID,
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
	})
	if err != nil {
		return h.mapApplyError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction_id": txID})
}

// Reserve aparta unidades del disponible del par producto-bodega.
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	return h.reservation(c, false)
}

// Release devuelve unidades reservadas al disponible.
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	return h.reservation(c, true)
}

func (h *InventoryHandler) reservation(c *fiber.Ctx, release bool) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Quantity.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positiva"})
	}
	var err error
	if release {
		err = h.reserveUC.Release(c.Context(), companyID, in.ProductID, in.WarehouseID, in.Quantity)
	} else {
		err = h.reserveUC.Reserve(c.Context(), companyID, in.ProductID, in.WarehouseID, in.Quantity)
	}
	if err != nil {
		if errors.Is(err, domain.ErrOverReservation) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_RESERVATION", Message: "la reserva excede el stock o lo reservado"})
		}
		return h.mapApplyError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva actualizada"})
}

// GetStock consulta el nivel y el stock efectivo de un par producto-bodega.
// Para bundles el efectivo es las unidades armables con los componentes.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	level, effective, err := h.queryUC.GetStock(c.Context(), companyID, productID, warehouseID)
	if err != nil {
		return h.mapApplyError(c, err)
	}
	return c.JSON(dto.StockLevelDTO{
		ProductID:      productID,
		WarehouseID:    warehouseID,
		Quantity:       level.Quantity,
		ReservedQty:    level.ReservedQty,
		EffectiveStock: effective,
		UpdatedAt:      level.UpdatedAt,
	})
}

// Ledger consulta el historial de transacciones. Con product_id filtra el
// par; sin él devuelve todo el historial de la bodega.
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
	}
	limit, offset := pagination(c)

	var entries any
	if productID != "" {
		entries, err = h.queryUC.LedgerByPair(c.Context(), companyID, productID, warehouseID, from, to, limit, offset)
	} else {
		entries, err = h.queryUC.LedgerByWarehouse(c.Context(), companyID, warehouseID, from, to, limit, offset)
	}
	if err != nil {
		return h.mapApplyError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// mapApplyError traduce los sentinelas de dominio a estados HTTP.
func (h *InventoryHandler) mapApplyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "conflicto de concurrencia, reintente la operación"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// parseDateQuery lee un query param de fecha YYYY-MM-DD; nil cuando no viene.
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
