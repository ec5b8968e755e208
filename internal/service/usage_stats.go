package service

import "wrongness-portfolio/internal/model"

// BuildCumulativeSuccessCurve 每次使用后的累计成功率（0-1）
func BuildCumulativeSuccessCurve(protocolID string, logs []model.UsageLog) []float64 {
	own := usageFor(protocolID, logs)
	curve := make([]float64, len(own))
	ok := 0
	for i, l := range own {
		if l.WasSuccess {
			ok++
		}
		curve[i] = float64(ok) / float64(i+1)
	}
	return curve
}

// FirstFailure 第一次失败的序号，-1 表示没有失败
func FirstFailure(protocolID string, logs []model.UsageLog) int {
	for i, l := range usageFor(protocolID, logs) {
		if !l.WasSuccess {
			return i
		}
	}
	return -1
}
