package service

import (
	"math"
	"sort"

	"wrongness-portfolio/internal/model"
)

// PortfolioStats 全局汇总，每次读取时重新计算
type PortfolioStats struct {
	TotalArtifacts    int     `json:"totalArtifacts"`
	TotalProtocols    int     `json:"totalProtocols"`
	TotalTimeSaved    int     `json:"totalTimeSaved"`
	AvgSuccessRate    float64 `json:"avgSuccessRate"`
	DatasetsActive    int     `json:"datasetsActive"`
	DatasetsCompleted int     `json:"datasetsCompleted"`

	MiningByStatus map[model.MiningStatus]int `json:"miningByStatus"`
}

// ComputePortfolioStats 空集合时均值为 0
func ComputePortfolioStats(artifacts []model.Artifact, datasets []model.Dataset, protocols []model.Protocol, tasks []model.MiningTask) PortfolioStats {
	s := PortfolioStats{
		TotalArtifacts: len(artifacts),
		TotalProtocols: len(protocols),
		MiningByStatus: map[model.MiningStatus]int{
			model.MiningActive:    0,
			model.MiningPending:   0,
			model.MiningCompleted: 0,
		},
	}

	rateSum := 0
	for _, p := range protocols {
		s.TotalTimeSaved += p.TimesApplied * p.AvgTimeSaved
		rateSum += p.SuccessRate
	}
	if len(protocols) > 0 {
		s.AvgSuccessRate = float64(rateSum) / float64(len(protocols))
	}

	for _, d := range datasets {
		switch d.Status {
		case model.DatasetInProgress:
			s.DatasetsActive++
		case model.DatasetCompleted:
			s.DatasetsCompleted++
		}
	}

	for _, t := range tasks {
		s.MiningByStatus[t.Status]++
	}
	return s
}

// TopProtocols 按成功率降序取前 n 个
func TopProtocols(protocols []model.Protocol, n int) []model.Protocol {
	out := make([]model.Protocol, len(protocols))
	copy(out, protocols)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuccessRate > out[j].SuccessRate
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ProjectArtifact 按来源为该 artifact 的 protocols 重新推导冗余计数，返回副本
func ProjectArtifact(a model.Artifact, protocols []model.Protocol) model.Artifact {
	out := a.Clone()
	out.Protocols = 0
	out.TimesSaved = 0
	out.AvgTimeSaved = 0

	totalSaved := 0
	for _, p := range protocols {
		if p.ArtifactSource != a.ID {
			continue
		}
		out.Protocols++
		out.TimesSaved += p.TimesApplied
		totalSaved += p.TimesApplied * p.AvgTimeSaved
	}
	if out.TimesSaved > 0 {
		out.AvgTimeSaved = roundHalfUp(float64(totalSaved) / float64(out.TimesSaved))
	}
	return out
}

// RelatedProtocols 来源为该 artifact 的 protocols
func RelatedProtocols(artifactID string, protocols []model.Protocol) []model.Protocol {
	out := []model.Protocol{}
	for _, p := range protocols {
		if p.ArtifactSource == artifactID {
			out = append(out, p)
		}
	}
	return out
}

// SuccessInterval 成功率的 Wilson 95% 置信区间（百分比）。
// 成功次数由取整后的成功率反推。
func SuccessInterval(p model.Protocol) (low, high float64) {
	n := p.TimesApplied
	k := roundHalfUp(float64(n) * float64(p.SuccessRate) / 100)
	if k > n {
		k = n
	}
	low, high = wilsonCI(k, n, 1.96)
	return low * 100, high * 100
}

// Wilson score interval for proportion
func wilsonCI(k int, n int, z float64) (float64, float64) {
	if n == 0 {
		return 0, 0
	}
	p := float64(k) / float64(n)
	zz := z * z
	den := 1 + zz/float64(n)
	center := (p + zz/(2*float64(n))) / den
	half := (z / den) * math.Sqrt((p*(1-p)+zz/(4*float64(n)))/float64(n))
	low := math.Max(0, center-half)
	high := math.Min(1, center+half)
	return low, high
}
