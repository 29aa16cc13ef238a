package dto

// StatsQueryReq 统计查询区间，闭区间，格式 2006-01-02
type StatsQueryReq struct {
	From   string `form:"from" binding:"required"`
	To     string `form:"to" binding:"required"`
	Metric string `form:"metric"`
}

// DailyMetricDTO 单日单指标
type DailyMetricDTO struct {
	Day    string `json:"day"`
	Metric string `json:"metric"`
	Value  int64  `json:"value"`
}

// StatsOverviewDTO 管理端概览
type StatsOverviewDTO struct {
	OnlineUsers int          `json:"online_users"`
	Series      []*DailyMetricDTO `json:"series"`
}
