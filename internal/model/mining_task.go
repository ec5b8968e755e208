package model

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

type MiningStatus string

const (
	MiningActive    MiningStatus = "active"
	MiningPending   MiningStatus = "pending"
	MiningCompleted MiningStatus = "completed"
)

// MiningTask 挖掘队列中的一项任务，纯描述性数据
type MiningTask struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Priority TaskPriority `json:"priority"`
	Deadline string       `json:"deadline"`
	Status   MiningStatus `json:"status"`
	Progress int          `json:"progress"`
}

func (t MiningTask) GetID() string { return t.ID }
