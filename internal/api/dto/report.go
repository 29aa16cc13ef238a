package dto

// CreateReportReq 举报请求
type CreateReportReq struct {
	TargetType string `json:"target_type" binding:"required" validate:"oneof=user post comment message"`
	TargetID   string `json:"target_id" binding:"required"`
	Reason     string `json:"reason" binding:"required" validate:"min=1,max=500"`
}

// HandleReportReq 处理举报
type HandleReportReq struct {
	Status int8 `json:"status" binding:"required" validate:"oneof=1 2"` // 1-已处理, 2-已驳回
}

// ReportDTO 举报项
type ReportDTO struct {
	ID         uint64 `json:"id"`
	ReporterID uint64 `json:"reporter_id"`
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
	Status     int8   `json:"status"`
	HandledBy  uint64 `json:"handled_by,omitempty"`
	HandledAt  string `json:"handled_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ReportListDTO 举报分页
type ReportListDTO struct {
	Total int64        `json:"total"`
	List  []*ReportDTO `json:"list"`
}
