// Package blob convierte el Snapshot en blobs JSON con nombre y viceversa.
// Todos los adaptadores de persistencia (memoria, archivo, PostgreSQL) comparten este
// formato:
//
//	stock        → {"<categoría>": [lote, ...]}
//	profitMargin → {"<categoría>": multiplicador}
//	log          → ["entrada", ...]
//	cashFlow     → [movimiento, ...]
//
// Los decimales se escriben como números JSON. Al leer se aceptan también los
// blobs de la versión web anterior (id numérico, fecha dd/mm/aaaa, campos price /
// pricePerUnit / suggestedPrice / totalSuggestedPrice).
package blob

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-control/internal/domain/entity"
)

// Nombres de los blobs.
const (
	KeyStock        = "stock"
	KeyProfitMargin = "profitMargin"
	KeyLog          = "log"
	KeyCashFlow     = "cashFlow"
)

// Keys todos los blobs, en orden de escritura.
var Keys = []string{KeyStock, KeyProfitMargin, KeyLog, KeyCashFlow}

const dateLayout = "2006-01-02"

var legacyDateLayouts = []string{"02/01/2006", "2/1/2006"}

// maxQuantity tope de unidades por lote al leer.
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

type lotRecord struct {
	ID                    flexID      `json:"id"`
	Name                  string      `json:"name"`
	Quantity              json.Number `json:"quantity"`
	CostTotal             json.Number `json:"costTotal,omitempty"`
	CostPerUnit           json.Number `json:"costPerUnit,omitempty"`
	SuggestedPricePerUnit json.Number `json:"suggestedPricePerUnit,omitempty"`
	SuggestedTotal        json.Number `json:"suggestedTotal,omitempty"`
	DateAdded             string      `json:"dateAdded"`
}

// legacyLotRecord campos de la versión web anterior; solo se leen.
type legacyLotRecord struct {
	lotRecord
	Price               json.Number `json:"price,omitempty"`
	PricePerUnit        json.Number `json:"pricePerUnit,omitempty"`
	SuggestedPrice      json.Number `json:"suggestedPrice,omitempty"`
	TotalSuggestedPrice json.Number `json:"totalSuggestedPrice,omitempty"`
}

type cashRecord struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Value       json.Number `json:"value"`
	Description string      `json:"description,omitempty"`
	Date        time.Time   `json:"date"`
}

// flexID acepta IDs como string o número (Date.now() en la versión anterior).
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id inválido: %s", b)
	}
	*id = flexID(n.String())
	return nil
}

// Encode serializa el snapshot completo. Siempre produce los cuatro blobs.
func Encode(s *entity.Snapshot) (map[string][]byte, error) {
	stock := make(map[string][]lotRecord, len(s.Stock))
	for cat, lots := range s.Stock {
		records := make([]lotRecord, 0, len(lots))
		for _, lot := range lots {
			records = append(records, lotRecord{
				ID:                    flexID(lot.ID),
				Name:                  lot.Name,
				Quantity:              json.Number(fmt.Sprint(lot.Quantity)),
				CostTotal:             number(lot.CostTotal),
				CostPerUnit:           number(lot.CostPerUnit),
				SuggestedPricePerUnit: number(lot.SuggestedPrice),
				SuggestedTotal:        number(lot.SuggestedTotal),
				DateAdded:             lot.DateAdded.Format(dateLayout),
			})
		}
		stock[string(cat)] = records
	}

	margins := make(map[string]json.Number, len(s.ProfitMargin))
	for cat, m := range s.ProfitMargin {
		margins[string(cat)] = number(m)
	}

	logEntries := s.Log
	if logEntries == nil {
		logEntries = []string{}
	}

	cash := make([]cashRecord, 0, len(s.CashFlow))
	for _, m := range s.CashFlow {
		cash = append(cash, cashRecord{
			ID:          m.ID,
			Type:        m.Type,
			Value:       number(m.Value),
			Description: m.Description,
			Date:        m.Date,
		})
	}

	out := make(map[string][]byte, len(Keys))
	for key, v := range map[string]any{
		KeyStock:        stock,
		KeyProfitMargin: margins,
		KeyLog:          logEntries,
		KeyCashFlow:     cash,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codificar blob %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}

// Decode reconstruye el snapshot. Un blob ausente deja su campo en nil.
//
// Cada blob se decodifica por separado: un blob ilegible queda en nil (valores por
// defecto) y un registro inválido se descarta sin afectar al resto. El snapshot
// devuelto nunca es nil; el error, si lo hay, reúne todo lo descartado.
func Decode(blobs map[string][]byte) (*entity.Snapshot, error) {
	s := &entity.Snapshot{}
	var problems []error

	if b, ok := blobs[KeyStock]; ok {
		var errs []error
		s.Stock, errs = decodeStock(b)
		problems = append(problems, errs...)
	}
	if b, ok := blobs[KeyProfitMargin]; ok {
		var errs []error
		s.ProfitMargin, errs = decodeMargins(b)
		problems = append(problems, errs...)
	}
	if b, ok := blobs[KeyLog]; ok {
		if err := unmarshal(b, &s.Log); err != nil {
			s.Log = nil
			problems = append(problems, fmt.Errorf("blob %s: %w", KeyLog, err))
		}
	}
	if b, ok := blobs[KeyCashFlow]; ok {
		var errs []error
		s.CashFlow, errs = decodeCashFlow(b)
		problems = append(problems, errs...)
	}
	return s, errors.Join(problems...)
}

func decodeStock(b []byte) (map[entity.Category][]entity.Lot, []error) {
	var raw map[string][]json.RawMessage
	if err := unmarshal(b, &raw); err != nil {
		return nil, []error{fmt.Errorf("blob %s: %w", KeyStock, err)}
	}
	var problems []error
	stock := make(map[entity.Category][]entity.Lot, len(raw))
	for cat, records := range raw {
		lots := make([]entity.Lot, 0, len(records))
		for i, item := range records {
			lot, err := toLot(item)
			if err != nil {
				problems = append(problems, fmt.Errorf("blob %s: %s[%d] descartado: %w", KeyStock, cat, i, err))
				continue
			}
			lots = append(lots, lot)
		}
		stock[entity.Category(cat)] = lots
	}
	return stock, problems
}

func decodeMargins(b []byte) (map[entity.Category]decimal.Decimal, []error) {
	var raw map[string]json.RawMessage
	if err := unmarshal(b, &raw); err != nil {
		return nil, []error{fmt.Errorf("blob %s: %w", KeyProfitMargin, err)}
	}
	var problems []error
	margins := make(map[entity.Category]decimal.Decimal, len(raw))
	for cat, item := range raw {
		var n json.Number
		err := unmarshal(item, &n)
		var m decimal.Decimal
		if err == nil {
			m, err = parseNumber(n)
		}
		if err == nil && !m.IsPositive() {
			err = fmt.Errorf("multiplicador no positivo %s", m)
		}
		if err != nil {
			problems = append(problems, fmt.Errorf("blob %s: %s descartado: %w", KeyProfitMargin, cat, err))
			continue
		}
		margins[entity.Category(cat)] = m
	}
	return margins, problems
}

func decodeCashFlow(b []byte) ([]entity.CashMovement, []error) {
	var raw []json.RawMessage
	if err := unmarshal(b, &raw); err != nil {
		return nil, []error{fmt.Errorf("blob %s: %w", KeyCashFlow, err)}
	}
	var problems []error
	movements := make([]entity.CashMovement, 0, len(raw))
	for i, item := range raw {
		m, err := toCashMovement(item)
		if err != nil {
			problems = append(problems, fmt.Errorf("blob %s[%d] descartado: %w", KeyCashFlow, i, err))
			continue
		}
		movements = append(movements, m)
	}
	return movements, problems
}

func toCashMovement(item json.RawMessage) (entity.CashMovement, error) {
	var r cashRecord
	if err := unmarshal(item, &r); err != nil {
		return entity.CashMovement{}, err
	}
	movType := strings.ToUpper(strings.TrimSpace(r.Type))
	if movType != entity.CashMovementIN && movType != entity.CashMovementOUT {
		return entity.CashMovement{}, fmt.Errorf("tipo inválido %q", r.Type)
	}
	v, err := parseNumber(r.Value)
	if err != nil {
		return entity.CashMovement{}, fmt.Errorf("valor: %w", err)
	}
	if !v.IsPositive() {
		return entity.CashMovement{}, fmt.Errorf("valor no positivo %s", v)
	}
	return entity.CashMovement{
		ID:          r.ID,
		Type:        movType,
		Value:       v,
		Description: r.Description,
		Date:        r.Date,
	}, nil
}

// toLot valida el registro contra las invariantes del lote. Los campos derivados
// ausentes quedan en cero; el Ledger los recalcula al restaurar.
func toLot(item json.RawMessage) (entity.Lot, error) {
	var r legacyLotRecord
	if err := unmarshal(item, &r); err != nil {
		return entity.Lot{}, err
	}
	if strings.TrimSpace(r.Name) == "" {
		return entity.Lot{}, errors.New("nombre vacío")
	}
	qty, err := parseNumber(r.Quantity)
	if err != nil || !qty.IsInteger() || !qty.IsPositive() || qty.GreaterThan(maxQuantity) {
		return entity.Lot{}, fmt.Errorf("cantidad inválida %q", r.Quantity)
	}
	cost, err := parseNumber(firstNumber(r.CostTotal, r.Price))
	if err != nil {
		return entity.Lot{}, fmt.Errorf("costo total: %w", err)
	}
	if !cost.IsPositive() {
		return entity.Lot{}, fmt.Errorf("costo total no positivo %s", cost)
	}
	perUnit, err := derivedNumber(firstNumber(r.CostPerUnit, r.PricePerUnit))
	if err != nil {
		return entity.Lot{}, fmt.Errorf("costo por unidad: %w", err)
	}
	suggested, err := derivedNumber(firstNumber(r.SuggestedPricePerUnit, r.SuggestedPrice))
	if err != nil {
		return entity.Lot{}, fmt.Errorf("precio sugerido: %w", err)
	}
	suggestedTotal, err := derivedNumber(firstNumber(r.SuggestedTotal, r.TotalSuggestedPrice))
	if err != nil {
		return entity.Lot{}, fmt.Errorf("total sugerido: %w", err)
	}
	date, err := parseDate(r.DateAdded)
	if err != nil {
		return entity.Lot{}, err
	}
	return entity.Lot{
		ID:             string(r.ID),
		Name:           r.Name,
		Quantity:       int(qty.IntPart()),
		CostTotal:      cost,
		CostPerUnit:    perUnit,
		SuggestedPrice: suggested,
		SuggestedTotal: suggestedTotal,
		DateAdded:      date,
	}, nil
}

// derivedNumber lee un campo derivado opcional: ausente o no positivo vale cero.
func derivedNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := parseNumber(n)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, nil
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("número ausente")
	}
	return decimal.NewFromString(n.String())
}

func firstNumber(ns ...json.Number) json.Number {
	for _, n := range ns {
		if n != "" {
			return n
		}
	}
	return ""
}

func unmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}
