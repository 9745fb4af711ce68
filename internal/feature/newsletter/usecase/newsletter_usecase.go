// Package usecase はニュースレター購読のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"clickcoin_backend/internal/feature/newsletter/domain/entity"
)

// ErrInvalidEmail はメールアドレスの形式が不正な場合に返されます。
var ErrInvalidEmail = errors.New("invalid email address")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubscriberStore は購読者の保存先です。新規追加なら added=true を返します。
type SubscriberStore interface {
	Add(ctx context.Context, s entity.Subscriber) (added bool, err error)
}

type newsletterUsecase struct {
	store SubscriberStore
	now   func() time.Time
}

// NewNewsletterUsecase はnewsletterUsecaseを生成します。
func NewNewsletterUsecase(store SubscriberStore) *newsletterUsecase {
	return &newsletterUsecase{store: store, now: time.Now}
}

// Subscribe はメールアドレスを検証して購読者として登録します。
// 登録済みの場合はエラーにせず alreadySubscribed=true を返します。
func (u *newsletterUsecase) Subscribe(ctx context.Context, email string) (alreadySubscribed bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return false, ErrInvalidEmail
	}

	added, err := u.store.Add(ctx, entity.Subscriber{
		Email:     email,
		AppType:   entity.DefaultAppType,
		CreatedAt: u.now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("store subscriber: %w", err)
	}
	return !added, nil
}
