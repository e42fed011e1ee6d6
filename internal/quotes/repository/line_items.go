package repository

import (
	"encoding/json"
	"fmt"

	"crm_console_backend/internal/quotes/domain"
)

// lineItemRecord is the JSONB shape of one element of quotes.line_items.
type lineItemRecord struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   int64   `json:"unitPrice"`
	Total       int64   `json:"total"`
}

func encodeLineItems(items []domain.LineItem) ([]byte, error) {
	records := make([]lineItemRecord, len(items))
	for i, item := range items {
		records[i] = lineItemRecord{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPriceCents,
			Total:       item.TotalCents,
		}
	}
	return json.Marshal(records)
}

// decodeLineItems never returns nil. Unreadable data yields an empty list and
// the decode error, so one bad row cannot fail a whole read.
func decodeLineItems(raw []byte) ([]domain.LineItem, error) {
	if len(raw) == 0 {
		return []domain.LineItem{}, nil
	}

	var records []lineItemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return []domain.LineItem{}, fmt.Errorf("decode line items: %w", err)
	}

	items := make([]domain.LineItem, len(records))
	for i, rec := range records {
		items[i] = domain.LineItem{
			Description:    rec.Description,
			Quantity:       rec.Quantity,
			UnitPriceCents: rec.UnitPrice,
			TotalCents:     rec.Total,
		}
	}
	return items, nil
}
