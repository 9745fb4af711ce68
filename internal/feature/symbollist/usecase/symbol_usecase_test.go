package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clickcoin_backend/internal/feature/symbollist/domain/entity"
	"clickcoin_backend/internal/feature/symbollist/usecase"
)

// stubRepo はメモリ上の銘柄スライスを返すSymbolRepositoryです。
type stubRepo struct {
	symbols   []entity.Symbol
	err       error
	count     int64
	countErr  error
	createErr error
	created   []entity.Symbol
	lookups   []string
}

func (r *stubRepo) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Symbol
	for _, s := range r.symbols {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubRepo) ListActiveCodes(ctx context.Context) ([]string, error) {
	active, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(active))
	for _, s := range active {
		codes = append(codes, s.Code)
	}
	return codes, nil
}

func (r *stubRepo) FindByCode(ctx context.Context, code string) (entity.Symbol, error) {
	r.lookups = append(r.lookups, code)
	if r.err != nil {
		return entity.Symbol{}, r.err
	}
	for _, s := range r.symbols {
		if s.Code == code {
			return s, nil
		}
	}
	return entity.Symbol{}, usecase.ErrSymbolNotFound
}

func (r *stubRepo) Count(ctx context.Context) (int64, error) { return r.count, r.countErr }

func (r *stubRepo) CreateBatch(ctx context.Context, symbols []entity.Symbol) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, symbols...)
	return nil
}

func coins() []entity.Symbol {
	return []entity.Symbol{
		{ID: 1, Code: "BTC-USD", Name: "Bitcoin", Market: "USD", IsActive: true, SortKey: 1},
		{ID: 2, Code: "ETH-EUR", Name: "Ethereum", Market: "EUR", IsActive: true, SortKey: 2},
		{ID: 3, Code: "LUNA-USD", Name: "Terra", Market: "USD", IsActive: false, SortKey: 3},
		{ID: 4, Code: "SOL-USD", Name: "Solana", Market: "USD", IsActive: true, SortKey: 4},
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BTC-USD", usecase.NormalizeCode("  btc-usd "))
	assert.Equal(t, "", usecase.NormalizeCode("   "))
}

func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		market    string
		wantCodes []string
	}{
		{name: "no filter", market: "", wantCodes: []string{"BTC-USD", "ETH-EUR", "SOL-USD"}},
		{name: "usd only", market: "USD", wantCodes: []string{"BTC-USD", "SOL-USD"}},
		{name: "case-insensitive market", market: " eur ", wantCodes: []string{"ETH-EUR"}},
		{name: "unknown market yields empty", market: "JPY", wantCodes: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&stubRepo{symbols: coins()})
			got, err := uc.ListActiveSymbols(context.Background(), tt.market)
			require.NoError(t, err)

			codes := make([]string, 0, len(got))
			for _, s := range got {
				codes = append(codes, s.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func TestSymbolUsecase_ListActiveSymbols_RepositoryError(t *testing.T) {
	t.Parallel()

	errDB := errors.New("database connection failed")
	uc := usecase.NewSymbolUsecase(&stubRepo{err: errDB})

	got, err := uc.ListActiveSymbols(context.Background(), "")
	assert.ErrorIs(t, err, errDB)
	assert.Nil(t, got)
}

func TestSymbolUsecase_GetSymbol(t *testing.T) {
	t.Parallel()

	t.Run("normalizes the code before lookup", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{symbols: coins()}
		s, err := usecase.NewSymbolUsecase(repo).GetSymbol(context.Background(), " sol-usd")
		require.NoError(t, err)
		assert.Equal(t, "Solana", s.Name)
		assert.Equal(t, []string{"SOL-USD"}, repo.lookups)
	})

	t.Run("inactive symbol is hidden", func(t *testing.T) {
		t.Parallel()
		_, err := usecase.NewSymbolUsecase(&stubRepo{symbols: coins()}).GetSymbol(context.Background(), "LUNA-USD")
		assert.ErrorIs(t, err, usecase.ErrSymbolNotFound)
	})

	t.Run("blank code skips the repository", func(t *testing.T) {
		t.Parallel()
		repo := &stubRepo{symbols: coins()}
		_, err := usecase.NewSymbolUsecase(repo).GetSymbol(context.Background(), "  ")
		assert.ErrorIs(t, err, usecase.ErrSymbolNotFound)
		assert.Empty(t, repo.lookups)
	})

	t.Run("unknown code", func(t *testing.T) {
		t.Parallel()
		_, err := usecase.NewSymbolUsecase(&stubRepo{symbols: coins()}).GetSymbol(context.Background(), "PEPE-USD")
		assert.ErrorIs(t, err, usecase.ErrSymbolNotFound)
	})
}

func TestSymbolUsecase_ListActiveCodes(t *testing.T) {
	t.Parallel()

	codes, err := usecase.NewSymbolUsecase(&stubRepo{symbols: coins()}).ListActiveCodes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"BTC-USD", "ETH-EUR", "SOL-USD"}, codes)
}

// TestSymbolUsecase_SeedDefaults はテーブルが空のときだけデフォルト銘柄が登録されることを検証します。
func TestSymbolUsecase_SeedDefaults(t *testing.T) {
	t.Parallel()

	errDB := errors.New("database connection failed")

	tests := []struct {
		name        string
		repo        *stubRepo
		wantCreated int
		wantErr     error
	}{
		{name: "empty table is seeded", repo: &stubRepo{}, wantCreated: len(entity.DefaultSymbols())},
		{name: "existing rows are left alone", repo: &stubRepo{count: 3}},
		{name: "count error", repo: &stubRepo{countErr: errDB}, wantErr: errDB},
		{name: "create error", repo: &stubRepo{createErr: errDB}, wantErr: errDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n, err := usecase.NewSymbolUsecase(tt.repo).SeedDefaults(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, n)
			assert.Len(t, tt.repo.created, tt.wantCreated)
			if tt.wantCreated > 0 {
				assert.Equal(t, "BTC-USD", tt.repo.created[0].Code)
				assert.Equal(t, 1, tt.repo.created[0].SortKey)
			}
		})
	}
}
