// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

import "clickcoin_backend/internal/feature/symbollist/domain/entity"

// SymbolItem represents a symbol in the API response.
type SymbolItem struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

// FromEntity maps a stored symbol to its public representation.
func FromEntity(s entity.Symbol) SymbolItem {
	return SymbolItem{Code: s.Code, Name: s.Name, Market: s.Market}
}

// FromEntities は常に非nilのスライスを返すため、空一覧は [] としてエンコードされます。
func FromEntities(symbols []entity.Symbol) []SymbolItem {
	out := make([]SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, FromEntity(s))
	}
	return out
}
