package adapters

import (
	"context"
	"log/slog"

	"clickcoin_backend/internal/feature/newsletter/domain/entity"
	"clickcoin_backend/internal/feature/newsletter/usecase"
)

// fallbackStore は primary への書き込みが失敗した場合に secondary へ書き込みます。
type fallbackStore struct {
	primary   usecase.SubscriberStore
	secondary usecase.SubscriberStore
}

var _ usecase.SubscriberStore = (*fallbackStore)(nil)

// NewFallbackStore は primary を優先する SubscriberStore を返します。
// どちらかが nil の場合はもう一方をそのまま返します。
func NewFallbackStore(primary, secondary usecase.SubscriberStore) usecase.SubscriberStore {
	switch {
	case primary == nil:
		return secondary
	case secondary == nil:
		return primary
	}
	return &fallbackStore{primary: primary, secondary: secondary}
}

func (f *fallbackStore) Add(ctx context.Context, s entity.Subscriber) (bool, error) {
	added, err := f.primary.Add(ctx, s)
	if err == nil {
		return added, nil
	}
	slog.Warn("primary subscriber store failed, using fallback", "error", err)
	return f.secondary.Add(ctx, s)
}
