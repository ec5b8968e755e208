package service

import (
	"math"
	"sort"

	"wrongness-portfolio/internal/model"
)

// MetricsOptions 控制运行平均的更新方式
type MetricsOptions struct {
	// 成功率是否截断到 100
	ClampSuccessRate bool
}

// UsageInput 一次使用记录的输入
type UsageInput struct {
	ProtocolID string `json:"protocolId"`
	WasSuccess bool   `json:"wasSuccess"`
	TimeSaved  int    `json:"timeSaved"`
}

// UpdateProtocolMetrics 记录一次使用后重算成功率和平均节省时间，返回新对象。
//
// 历史成功次数由 timesApplied * successRate/100 反推，成功率是取整后存的，
// 多次更新会累积误差；精确值见 ReplayProtocolMetrics。
func UpdateProtocolMetrics(p model.Protocol, usage UsageInput, opts MetricsOptions) model.Protocol {
	total := p.TimesApplied + 1

	priorSuccesses := float64(p.TimesApplied) * (float64(p.SuccessRate) / 100)
	successes := priorSuccesses
	if usage.WasSuccess {
		successes++
	}
	rate := roundHalfUp((successes / float64(total)) * 100)
	if opts.ClampSuccessRate && rate > 100 {
		rate = 100
	}

	totalSaved := float64(p.AvgTimeSaved)*float64(p.TimesApplied) + float64(usage.TimeSaved)
	avg := roundHalfUp(totalSaved / float64(total))

	out := p
	out.TimesApplied = total
	out.SuccessRate = rate
	out.AvgTimeSaved = avg
	return out
}

// roundHalfUp .5 向正无穷取整
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// ExactMetrics 由使用日志直接统计出的指标
type ExactMetrics struct {
	Applications int     `json:"applications"`
	Successes    int     `json:"successes"`
	SuccessRate  float64 `json:"successRate"`
	AvgTimeSaved float64 `json:"avgTimeSaved"`
	// 日志覆盖了该 protocol 的全部使用（从第 0 次开始记录且条数一致）
	Complete bool `json:"complete"`
}

// ReplayProtocolMetrics 用 append-only 日志精确重算。
// 若 protocol 在开始记录日志前已有使用次数，Complete 为 false，只统计日志部分。
func ReplayProtocolMetrics(p model.Protocol, logs []model.UsageLog) ExactMetrics {
	own := usageFor(p.ID, logs)

	var m ExactMetrics
	totalSaved := 0
	for _, l := range own {
		m.Applications++
		if l.WasSuccess {
			m.Successes++
		}
		totalSaved += l.TimeSaved
	}
	if m.Applications > 0 {
		m.SuccessRate = 100 * float64(m.Successes) / float64(m.Applications)
		m.AvgTimeSaved = float64(totalSaved) / float64(m.Applications)
	}
	m.Complete = m.Applications == p.TimesApplied &&
		(len(own) == 0 || own[0].PriorApplications == 0)
	return m
}

// usageFor 过滤出某个 protocol 的日志，按记录顺序排列
func usageFor(protocolID string, logs []model.UsageLog) []model.UsageLog {
	var own []model.UsageLog
	for _, l := range logs {
		if l.ProtocolID == protocolID {
			own = append(own, l)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].PriorApplications < own[j].PriorApplications
	})
	return own
}
