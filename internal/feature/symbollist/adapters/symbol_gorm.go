// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clickcoin_backend/internal/feature/symbollist/domain/entity"
	"clickcoin_backend/internal/feature/symbollist/usecase"
)

// symbolGorm はSymbolRepositoryインターフェースのGORM実装です。
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository は指定されたDB接続でsymbolGormリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolGorm) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCode はコードが一致する銘柄を有効・無効を問わず1件返します。
func (r *symbolGorm) FindByCode(ctx context.Context, code string) (entity.Symbol, error) {
	var s entity.Symbol
	err := r.db.WithContext(ctx).Where("code = ?", code).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Symbol{}, usecase.ErrSymbolNotFound
	}
	if err != nil {
		return entity.Symbol{}, err
	}
	return s, nil
}

// Count は登録済みの銘柄数（非アクティブを含む）を返します。
func (r *symbolGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.Symbol{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CreateBatch は銘柄をまとめて登録します。
func (r *symbolGorm) CreateBatch(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&symbols).Error
}
