// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clickcoin_backend/internal/feature/symbollist/domain/entity"
)

// ErrSymbolNotFound は指定コードの銘柄が存在しない、または無効化されている場合に返されます。
var ErrSymbolNotFound = errors.New("symbol not found")

// SymbolRepository abstracts the persistence layer for symbol (coin ticker) data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (entity.Symbol, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// NormalizeCode はユーザー入力のティッカーコードを保存形式（大文字・前後空白なし）に揃えます。
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ListActiveSymbols returns the active symbols in display order.
// A non-empty market keeps only symbols quoted in that market (case-insensitive).
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context, market string) ([]entity.Symbol, error) {
	symbols, err := u.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active symbols: %w", err)
	}
	market = strings.TrimSpace(market)
	if market == "" {
		return symbols, nil
	}
	out := make([]entity.Symbol, 0, len(symbols))
	for _, s := range symbols {
		if strings.EqualFold(s.Market, market) {
			out = append(out, s)
		}
	}
	return out, nil
}

// GetSymbol は有効な銘柄を1件返します。無効化された銘柄は ErrSymbolNotFound 扱いです。
func (u *SymbolUsecase) GetSymbol(ctx context.Context, code string) (entity.Symbol, error) {
	code = NormalizeCode(code)
	if code == "" {
		return entity.Symbol{}, ErrSymbolNotFound
	}
	s, err := u.repo.FindByCode(ctx, code)
	if err != nil {
		return entity.Symbol{}, err
	}
	if !s.IsActive {
		return entity.Symbol{}, ErrSymbolNotFound
	}
	return s, nil
}

// ListActiveCodes returns the ticker codes of all active symbols in display order.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// SeedDefaults inserts entity.DefaultSymbols when the table is empty and
// reports how many rows were created.
func (u *SymbolUsecase) SeedDefaults(ctx context.Context) (int, error) {
	n, err := u.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	defaults := entity.DefaultSymbols()
	if err := u.repo.CreateBatch(ctx, defaults); err != nil {
		return 0, fmt.Errorf("seed symbols: %w", err)
	}
	return len(defaults), nil
}
