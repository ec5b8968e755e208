package model

// DatasetStatus 数据集挖掘进度
type DatasetStatus string

const (
	DatasetPlanned    DatasetStatus = "planned"
	DatasetInProgress DatasetStatus = "in-progress"
	DatasetCompleted  DatasetStatus = "completed"
)

// Dataset 待挖掘的外部知识源
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	// 评分输入，取值 1-5
	Relevance       int `json:"relevance"`
	SignalDensity   int `json:"signalDensity"`
	Transferability int `json:"transferability"`

	Status DatasetStatus `json:"status"`
	// 投入时间（小时）
	TimeInvested       float64 `json:"timeInvested"`
	ProtocolsExtracted int     `json:"protocolsExtracted"`
	ProtocolsValidated int     `json:"protocolsValidated"`
	URL                string  `json:"url"`
}

func (d Dataset) GetID() string { return d.ID }
