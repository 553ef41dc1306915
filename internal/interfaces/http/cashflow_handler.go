package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/application/inventory"
)

// CashFlowHandler maneja el libro de caja.
type CashFlowHandler struct {
	uc *inventory.StockUseCase
}

// NewCashFlowHandler construye el handler.
func NewCashFlowHandler(uc *inventory.StockUseCase) *CashFlowHandler {
	return &CashFlowHandler{uc: uc}
}

// Get godoc
// @Summary      Movimientos de caja y saldo
// @Tags         cashflow
// @Produce      json
// @Success      200  {object}  dto.CashFlowDTO
// @Router       /api/cashflow [get]
func (h *CashFlowHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.uc.CashFlow(c.UserContext()))
}

// Register godoc
// @Summary      Registrar movimiento de caja
// @Tags         cashflow
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashMovementRequest  true  "type (IN/OUT), value (> 0), description"
// @Success      201  {object}  dto.CashMovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cashflow [post]
func (h *CashFlowHandler) Register(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterCashMovement(c.UserContext(), in.Type, string(in.Value), in.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
