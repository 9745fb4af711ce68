package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clickcoin_backend/internal/feature/newsletter/domain/entity"
	"clickcoin_backend/internal/feature/newsletter/usecase"
)

// SubscriberModel は newsletter_subscribers テーブルのGORMモデルです。
type SubscriberModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"size:320;not null;uniqueIndex"`
	AppType   string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName はGORMが使用するテーブル名を返します。
func (SubscriberModel) TableName() string { return "newsletter_subscribers" }

// subscriberGorm は購読者をRDBに保存します。
type subscriberGorm struct {
	db *gorm.DB
}

var _ usecase.SubscriberStore = (*subscriberGorm)(nil)

// NewSubscriberGorm はsubscriberGormを生成します。
func NewSubscriberGorm(db *gorm.DB) *subscriberGorm {
	return &subscriberGorm{db: db}
}

// Add は購読者を登録します。email が重複する場合は何もせず added=false を返します。
func (r *subscriberGorm) Add(ctx context.Context, s entity.Subscriber) (bool, error) {
	m := SubscriberModel{Email: s.Email, AppType: s.AppType, CreatedAt: s.CreatedAt}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&m)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}
