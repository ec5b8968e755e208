package model

// ProtocolCategory protocol 分类
type ProtocolCategory string

const (
	CategoryDiagnostic     ProtocolCategory = "Diagnostic"
	CategoryProblemSolving ProtocolCategory = "Problem-Solving"
)

// Protocol 从 artifact 中提炼出的可复用流程
type Protocol struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category ProtocolCategory `json:"category"`
	// 来源 artifact ID（引用关系，不是归属）
	ArtifactSource string `json:"artifactSource"`

	TimesApplied int `json:"timesApplied"`
	// 成功率百分比 0-100
	SuccessRate int `json:"successRate"`
	// 平均节省时间（分钟）
	AvgTimeSaved int        `json:"avgTimeSaved"`
	Confidence   Confidence `json:"confidence"`
}

func (p Protocol) GetID() string { return p.ID }
