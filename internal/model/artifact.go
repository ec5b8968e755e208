package model

// ArtifactStatus 错题生命周期
type ArtifactStatus string

const (
	ArtifactEvergreen ArtifactStatus = "evergreen"
	ArtifactActive    ArtifactStatus = "active"
	ArtifactArchived  ArtifactStatus = "archived"
)

// Confidence 置信度标签
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Artifact 一条被记录下来的“错误认知”
type Artifact struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Domain   string `json:"domain"`
	Category string `json:"category"`

	// 叙事字段：错误模型 / 信号 / 重建后的模型
	WrongModel string `json:"wrongModel"`
	Signal     string `json:"signal"`
	Rebuild    string `json:"rebuild"`

	Status ArtifactStatus `json:"status"`
	// protocol 引用 -> 置信度
	Confidence  map[string]Confidence `json:"confidence"`
	DateCreated string                `json:"dateCreated"`

	// 冗余计数：读取时由 service.ProjectArtifact 按 protocols 重新推导
	Protocols    int  `json:"protocols"`
	TimesSaved   int  `json:"timesSaved"`
	AvgTimeSaved int  `json:"avgTimeSaved"`
	Validated    bool `json:"validated"`
}

// Clone 深拷贝（confidence 是 map，浅拷贝会共享底层数据）
func (a Artifact) Clone() Artifact {
	out := a
	if a.Confidence != nil {
		out.Confidence = make(map[string]Confidence, len(a.Confidence))
		for k, v := range a.Confidence {
			out.Confidence[k] = v
		}
	}
	return out
}

func (a Artifact) GetID() string { return a.ID }
