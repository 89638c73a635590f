package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

// RoutingRepository 路由规则数据访问接口
type RoutingRepository interface {
	Create(ctx context.Context, rule *model.RoutingRule) error
	GetByID(ctx context.Context, id string) (*model.RoutingRule, error)
	// GetActiveByType 返回指定请求类型当前启用的规则；无则 gorm.ErrRecordNotFound
	GetActiveByType(ctx context.Context, requestType string) (*model.RoutingRule, error)
	List(ctx context.Context) ([]model.RoutingRule, error)
	Update(ctx context.Context, rule *model.RoutingRule) error
	Delete(ctx context.Context, id string) error
}

// routingRepo RoutingRepository 的 GORM 实现
type routingRepo struct {
	db *gorm.DB
}

// NewRoutingRepo 创建 RoutingRepository 实例
func NewRoutingRepo(db *gorm.DB) RoutingRepository {
	return &routingRepo{db: db}
}

func (r *routingRepo) Create(ctx context.Context, rule *model.RoutingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *routingRepo) GetByID(ctx context.Context, id string) (*model.RoutingRule, error) {
	var rule model.RoutingRule
	err := r.db.WithContext(ctx).
		Where("rule_id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *routingRepo) GetActiveByType(ctx context.Context, requestType string) (*model.RoutingRule, error) {
	var rule model.RoutingRule
	err := r.db.WithContext(ctx).
		Where("request_type = ? AND is_active = ?", requestType, true).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *routingRepo) List(ctx context.Context) ([]model.RoutingRule, error) {
	var rules []model.RoutingRule
	err := r.db.WithContext(ctx).
		Order("request_type ASC").
		Find(&rules).Error
	return rules, err
}

func (r *routingRepo) Update(ctx context.Context, rule *model.RoutingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *routingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("rule_id = ?", id).
		Delete(&model.RoutingRule{}).Error
}
