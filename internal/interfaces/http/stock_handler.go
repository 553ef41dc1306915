package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/application/inventory"
	"github.com/jhoicas/stock-control/internal/domain/ledger"
)

// StockHandler maneja lotes, márgenes, totales y auditoría.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Description  Categorías en el orden configurado, con multiplicador, cantidad de lotes y totales.
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.CategoryDTO
// @Router       /api/categories [get]
func (h *StockHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(h.uc.Categories(c.UserContext()))
}

// GetCategory godoc
// @Summary      Detalle de una categoría
// @Tags         stock
// @Produce      json
// @Param        category  path  string  true  "Categoría"
// @Success      200  {object}  dto.CategoryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{category} [get]
func (h *StockHandler) GetCategory(c *fiber.Ctx) error {
	out, err := h.uc.Category(c.UserContext(), param(c, "category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddLot godoc
// @Summary      Agregar lote
// @Description  Deriva costo unitario, precio sugerido y total con el margen vigente de la categoría.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        category  path  string          true  "Categoría"
// @Param        body      body  dto.LotRequest  true  "name, quantity (entero > 0), cost_total (> 0; acepta coma decimal)"
// @Success      201  {object}  dto.LotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{category}/lots [post]
func (h *StockHandler) AddLot(c *fiber.Ctx) error {
	in, err := parseLot(c)
	if err != nil {
		return writeError(c, err)
	}
	lot, err := h.uc.AddLot(c.UserContext(), param(c, "category"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// EditLot godoc
// @Summary      Editar lote
// @Description  Reemplaza nombre, cantidad y costo. Los precios se recalculan con el margen vigente.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        category  path  string          true  "Categoría"
// @Param        id        path  string          true  "ID del lote"
// @Param        body      body  dto.LotRequest  true  "nuevos valores"
// @Success      200  {object}  dto.LotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{category}/lots/{id} [put]
func (h *StockHandler) EditLot(c *fiber.Ctx) error {
	in, err := parseLot(c)
	if err != nil {
		return writeError(c, err)
	}
	lot, err := h.uc.EditLot(c.UserContext(), param(c, "category"), param(c, "id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(lot)
}

// RemoveLot godoc
// @Summary      Eliminar lote
// @Tags         stock
// @Param        category  path  string  true  "Categoría"
// @Param        id        path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{category}/lots/{id} [delete]
func (h *StockHandler) RemoveLot(c *fiber.Ctx) error {
	if err := h.uc.RemoveLot(c.UserContext(), param(c, "category"), param(c, "id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetMargin godoc
// @Summary      Cambiar margen
// @Description  percent es el porcentaje sobre el costo (185 → multiplicador 2.85). No recalcula lotes existentes.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        category  path  string             true  "Categoría"
// @Param        body      body  dto.MarginRequest  true  "percent"
// @Success      200  {object}  dto.MarginDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/margins/{category} [put]
func (h *StockHandler) SetMargin(c *fiber.Ctx) error {
	var in dto.MarginRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetMargin(c.UserContext(), param(c, "category"), string(in.Percent))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Totals godoc
// @Summary      Totales generales
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.TotalsDTO
// @Router       /api/totals [get]
func (h *StockHandler) Totals(c *fiber.Ctx) error {
	return c.JSON(h.uc.Totals(c.UserContext()))
}

// AuditLog godoc
// @Summary      Registro de auditoría
// @Tags         audit
// @Produce      json
// @Param        limit   query  int  false  "máximo de entradas (por defecto 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.AuditLogDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/log [get]
func (h *StockHandler) AuditLog(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, validationError(err))
	}
	if err := validateStruct(&page); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.uc.AuditLog(c.UserContext(), page))
}

func parseLot(c *fiber.Ctx) (ledger.LotInput, error) {
	var in dto.LotRequest
	if err := bindJSON(c, &in); err != nil {
		return ledger.LotInput{}, err
	}
	return ledger.LotInput{
		Name:      in.Name,
		Quantity:  string(in.Quantity),
		CostTotal: string(in.CostTotal),
	}, nil
}
