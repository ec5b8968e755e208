package model

import "time"

// UsageLog 一次 protocol 使用记录（追加写，不修改）
// 用于精确重算成功率，避免从四舍五入后的百分比反推成功次数
type UsageLog struct {
	ID         string    `json:"id"`
	ProtocolID string    `json:"protocolId"`
	WasSuccess bool      `json:"wasSuccess"`
	TimeSaved  int       `json:"timeSaved"`
	LoggedAt   time.Time `json:"loggedAt"`
	// 记录前 protocol 已有的应用次数，用于判断历史是否完整
	PriorApplications int `json:"priorApplications"`
}
