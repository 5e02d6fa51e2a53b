package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stockflow/stockflow-api/internal/application/alerts"
	"github.com/stockflow/stockflow-api/internal/application/dto"
	"github.com/stockflow/stockflow-api/internal/domain"
)

// AlertHandler expone las alertas de bajo stock (protegido).
type AlertHandler struct {
	uc *alerts.ReorderAlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.ReorderAlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// LowStock devuelve las alertas de reorden de la empresa, ordenadas por días
// hasta quiebre ascendente (sin estimación al final). Acepta warehouse_id
// opcional para filtrar por bodega.
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	warehouseID := c.Query("warehouse_id")

	list, err := h.uc.ComputeAlerts(c.Context(), companyID, warehouseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa o bodega no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "empresa inactiva"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.ReorderAlertDTO, 0, len(list))
	for i := range list {
		out = append(out, dto.NewReorderAlertDTO(&list[i]))
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}
