package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

// ActivityRepository 请求活动日志数据访问接口（只追加）
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.RequestActivity) error
	// ListByRequest 按创建时间升序返回活动；publicOnly 时过滤内部备注
	ListByRequest(ctx context.Context, requestID uint, publicOnly bool) ([]model.RequestActivity, error)
	// UnreadCount 统计他人留言数；clientView 时排除内部备注
	UnreadCount(ctx context.Context, requestID uint, viewerID string, clientView bool) (int64, error)
}

// activityRepo ActivityRepository 的 GORM 实现
type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实例
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, activity *model.RequestActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepo) ListByRequest(ctx context.Context, requestID uint, publicOnly bool) ([]model.RequestActivity, error) {
	var activities []model.RequestActivity

	db := r.db.WithContext(ctx).
		Preload("Tech").
		Where("request_id = ?", requestID)
	if publicOnly {
		db = db.Where("is_internal = ?", false)
	}

	err := db.Order("created_at ASC").Find(&activities).Error
	return activities, err
}

func (r *activityRepo) UnreadCount(ctx context.Context, requestID uint, viewerID string, clientView bool) (int64, error) {
	var count int64

	db := r.db.WithContext(ctx).
		Model(&model.RequestActivity{}).
		Where("request_id = ?", requestID).
		Where("activity_type IN ?", []string{model.ActivityClientMessage, model.ActivityInternalNote}).
		Where("tech_id <> ?", viewerID)
	if clientView {
		db = db.Where("is_internal = ?", false)
	}

	err := db.Count(&count).Error
	return count, err
}
