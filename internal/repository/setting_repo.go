package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

// SettingRepository 系统设置数据访问接口
type SettingRepository interface {
	Get(ctx context.Context, category, key string) (*model.Setting, error)
	// GetCategory 返回某分类下全部设置的 key → value 映射
	GetCategory(ctx context.Context, category string) (map[string]string, error)
	// Upsert 按 (category, key) 写入或覆盖
	Upsert(ctx context.Context, setting *model.Setting) error
}

// settingRepo SettingRepository 的 GORM 实现
type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepo 创建 SettingRepository 实例
func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) Get(ctx context.Context, category, key string) (*model.Setting, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).
		Where("category = ? AND key = ?", category, key).
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) GetCategory(ctx context.Context, category string) (map[string]string, error) {
	var settings []model.Setting
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Find(&settings).Error
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

func (r *settingRepo) Upsert(ctx context.Context, setting *model.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(setting).Error
}
