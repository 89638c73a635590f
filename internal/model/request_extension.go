package model

import "time"

// 每个请求恰好存在一条与 request_type 匹配的扩展记录（1:1，主键即 request_id），
// 类型在创建后不可变更。

// EventRequest 活动申请扩展 — 对应 event_requests
type EventRequest struct {
	RequestID        uint       `gorm:"primaryKey"                  json:"request_id"`
	EventName        string     `gorm:"type:varchar(200);not null"  json:"event_name"`
	MinistryInCharge string     `gorm:"type:varchar(200);not null"  json:"ministry_in_charge"`
	StartingDate     time.Time  `gorm:"not null"                    json:"starting_date"`
	EndingDate       time.Time  `gorm:"not null"                    json:"ending_date"`
	GraphicRequired  bool       `gorm:"not null;default:false"      json:"graphic_required"`
	GraphicNotes     string     `gorm:"type:text"                   json:"graphic_notes,omitempty"`
	Cost             *float64   `gorm:"type:numeric(12,2)"          json:"cost,omitempty"`
	TicketsRequired  bool       `gorm:"not null;default:false"      json:"tickets_required"`
	RegistrationLink string     `gorm:"type:text"                   json:"registration_link,omitempty"`
	RegistrationFile string     `gorm:"type:text"                   json:"registration_file,omitempty"`
	EquipmentList    string     `gorm:"type:text"                   json:"equipment_list,omitempty"`
}

// TableName 指定表名
func (EventRequest) TableName() string { return "event_requests" }

// WebRequest 网站支持扩展 — 对应 web_requests
type WebRequest struct {
	RequestID   uint   `gorm:"primaryKey"                 json:"request_id"`
	Domain      string `gorm:"type:varchar(100);not null" json:"domain"`
	Description string `gorm:"type:text;not null"         json:"description"`
}

// TableName 指定表名
func (WebRequest) TableName() string { return "web_requests" }

// KnownWebDomains 网站请求允许的已知域名枚举
var KnownWebDomains = map[string]bool{
	"main_site":    true,
	"members_site": true,
	"events_site":  true,
	"giving_site":  true,
}

// TechnicalRequest 技术支持扩展 — 对应 technical_requests
type TechnicalRequest struct {
	RequestID          uint       `gorm:"primaryKey"                               json:"request_id"`
	IssueDescription   string     `gorm:"type:text;not null"                       json:"issue_description"`
	IssueType          string     `gorm:"type:varchar(50)"                         json:"issue_type,omitempty"`
	Severity           string     `gorm:"type:varchar(20);not null;default:'medium'" json:"severity"`
	ReproSteps         string     `gorm:"type:text"                                json:"repro_steps,omitempty"`
	DeviceInfo         string     `gorm:"type:text"                                json:"device_info,omitempty"`
	ErrorText          string     `gorm:"type:text"                                json:"error_text,omitempty"`
	AttemptedSolutions string     `gorm:"type:text"                                json:"attempted_solutions,omitempty"`
	AttachmentPath     string     `gorm:"type:text"                                json:"attachment_path,omitempty"`
	IssueStarted       *time.Time `json:"issue_started,omitempty"`
}

// TableName 指定表名
func (TechnicalRequest) TableName() string { return "technical_requests" }

// GraphicRequest 平面设计扩展 — 对应 graphic_requests
type GraphicRequest struct {
	RequestID     uint       `gorm:"primaryKey"                 json:"request_id"`
	EventName     string     `gorm:"type:varchar(200);not null" json:"event_name"`
	EventDate     *time.Time `json:"event_date,omitempty"`
	Font          string     `gorm:"type:varchar(100)"          json:"font,omitempty"`
	Color         string     `gorm:"type:varchar(50)"           json:"color,omitempty"`
	ReusePrevious bool       `gorm:"not null;default:false"     json:"reuse_previous"`
	ReusableItems string     `gorm:"type:text"                  json:"reusable_items,omitempty"`
}

// TableName 指定表名
func (GraphicRequest) TableName() string { return "graphic_requests" }
