package inventory

import (
	"github.com/jhoicas/stock-control/internal/application/dto"
	"github.com/jhoicas/stock-control/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toLotDTO(lot entity.Lot) dto.LotDTO {
	return dto.LotDTO{
		ID:             lot.ID,
		Name:           lot.Name,
		Quantity:       lot.Quantity,
		CostTotal:      lot.CostTotal.Round(2),
		CostPerUnit:    lot.CostPerUnit.Round(2),
		SuggestedPrice: lot.SuggestedPrice.Round(2),
		SuggestedTotal: lot.SuggestedTotal.Round(2),
		DateAdded:      lot.DateAdded.Format(dateLayout),
	}
}

func toLotDTOs(lots []entity.Lot) []dto.LotDTO {
	out := make([]dto.LotDTO, 0, len(lots))
	for _, lot := range lots {
		out = append(out, toLotDTO(lot))
	}
	return out
}

func toCashMovementDTO(m entity.CashMovement) dto.CashMovementDTO {
	return dto.CashMovementDTO{
		ID:          m.ID,
		Type:        m.Type,
		Value:       m.Value,
		Description: m.Description,
		Date:        m.Date,
	}
}
