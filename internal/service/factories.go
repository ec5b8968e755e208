package service

import (
	"time"

	"wrongness-portfolio/internal/model"
)

const dateLayout = "2006-01-02"

// NewArtifactInput 新建 artifact 表单
type NewArtifactInput struct {
	Title    string `json:"title" binding:"required"`
	Domain   string `json:"domain" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// ArtifactRevision 编辑 artifact 时可改的字段；ID、创建日期不在其中
type ArtifactRevision struct {
	Title      string                      `json:"title" binding:"required"`
	Domain     string                      `json:"domain" binding:"required"`
	Category   string                      `json:"category" binding:"required"`
	WrongModel string                      `json:"wrongModel"`
	Signal     string                      `json:"signal"`
	Rebuild    string                      `json:"rebuild"`
	Status     model.ArtifactStatus        `json:"status" binding:"required,oneof=evergreen active archived"`
	Confidence map[string]model.Confidence `json:"confidence" binding:"omitempty,dive,oneof=high medium low"`
	Validated  bool                        `json:"validated"`
}

// Apply 把修订内容合并到 a 的副本上
func (r ArtifactRevision) Apply(a model.Artifact) model.Artifact {
	out := a
	out.Title = r.Title
	out.Domain = r.Domain
	out.Category = r.Category
	out.WrongModel = r.WrongModel
	out.Signal = r.Signal
	out.Rebuild = r.Rebuild
	out.Status = r.Status
	out.Confidence = make(map[string]model.Confidence, len(r.Confidence))
	for k, v := range r.Confidence {
		out.Confidence[k] = v
	}
	out.Validated = r.Validated
	return out
}

// NewDatasetInput 新建数据集表单
type NewDatasetInput struct {
	Name            string `json:"name" binding:"required"`
	Type            string `json:"type" binding:"required"`
	URL             string `json:"url"`
	Relevance       int    `json:"relevance" binding:"required,min=1,max=5"`
	SignalDensity   int    `json:"signalDensity" binding:"required,min=1,max=5"`
	Transferability int    `json:"transferability" binding:"required,min=1,max=5"`
}

// NewProtocolInput 新建 protocol 表单
type NewProtocolInput struct {
	Name       string                 `json:"name" binding:"required"`
	Category   model.ProtocolCategory `json:"category" binding:"required,oneof=Diagnostic Problem-Solving"`
	Confidence model.Confidence       `json:"confidence" binding:"required,oneof=high medium low"`
}

// NewMiningTaskInput 新建挖掘任务表单
type NewMiningTaskInput struct {
	Source   string             `json:"source" binding:"required"`
	Target   string             `json:"target" binding:"required"`
	Priority model.TaskPriority `json:"priority" binding:"required,oneof=high medium low"`
	Deadline string             `json:"deadline"`
}

// 工厂函数不做校验，调用方保证输入完整

func CreateArtifact(in NewArtifactInput, existing []model.Artifact, now time.Time) model.Artifact {
	return model.Artifact{
		ID:          NextID(collectIDs(existing), PrefixArtifact, idWidth),
		Title:       in.Title,
		Domain:      in.Domain,
		Category:    in.Category,
		Status:      model.ArtifactActive,
		Confidence:  map[string]model.Confidence{},
		DateCreated: now.Format(dateLayout),
	}
}

func CreateDataset(in NewDatasetInput, existing []model.Dataset) model.Dataset {
	return model.Dataset{
		ID:              NextID(collectIDs(existing), PrefixDataset, idWidth),
		Name:            in.Name,
		Type:            in.Type,
		URL:             in.URL,
		Relevance:       in.Relevance,
		SignalDensity:   in.SignalDensity,
		Transferability: in.Transferability,
		Status:          model.DatasetPlanned,
	}
}

func CreateProtocol(in NewProtocolInput, existing []model.Protocol, artifactSourceID string) model.Protocol {
	return model.Protocol{
		ID:             NextID(collectIDs(existing), PrefixProtocol, idWidth),
		Name:           in.Name,
		Category:       in.Category,
		Confidence:     in.Confidence,
		ArtifactSource: artifactSourceID,
	}
}

func CreateMiningTask(in NewMiningTaskInput, existing []model.MiningTask) model.MiningTask {
	return model.MiningTask{
		ID:       NextID(collectIDs(existing), PrefixMiningTask, idWidth),
		Source:   in.Source,
		Target:   in.Target,
		Priority: in.Priority,
		Deadline: in.Deadline,
		Status:   model.MiningPending,
	}
}

// replaceByID 返回新切片，ID 匹配的元素被替换；没有匹配时内容与输入相同
func replaceByID[T identified](items []T, updated T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if it.GetID() == updated.GetID() {
			out[i] = updated
			continue
		}
		out[i] = it
	}
	return out
}

// removeByID 返回不含该 ID 的新切片
func removeByID[T identified](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.GetID() != id {
			out = append(out, it)
		}
	}
	return out
}

func findByID[T identified](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func UpdateArtifact(artifacts []model.Artifact, updated model.Artifact) []model.Artifact {
	return replaceByID(artifacts, updated.Clone())
}

func UpdateDataset(datasets []model.Dataset, updated model.Dataset) []model.Dataset {
	return replaceByID(datasets, updated)
}

func UpdateProtocol(protocols []model.Protocol, updated model.Protocol) []model.Protocol {
	return replaceByID(protocols, updated)
}

func UpdateMiningTask(tasks []model.MiningTask, updated model.MiningTask) []model.MiningTask {
	return replaceByID(tasks, updated)
}
