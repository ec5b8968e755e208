package service

import (
	"math"
	"math/big"
	"sort"
	"strconv"

	"wrongness-portfolio/internal/model"
)

const (
	// 每条已验证 protocol 估算节省的分钟数
	minutesPerValidatedProtocol = 30
	minutesPerHour              = 60
)

// DatasetScore 挖掘优先级：relevance*3 + signalDensity*2 + transferability*2
func DatasetScore(d model.Dataset) int {
	return d.Relevance*3 + d.SignalDensity*2 + d.Transferability*2
}

// DatasetROI 每投入一分钟换回的分钟数，保留一位小数。
// 没有投入时间时固定返回 "0.0"。
func DatasetROI(d model.Dataset) string {
	if d.TimeInvested == 0 {
		return "0.0"
	}
	roi := float64(d.ProtocolsValidated*minutesPerValidatedProtocol) / (d.TimeInvested * minutesPerHour)
	return formatFixed1(roi)
}

// formatFixed1 按 x 的精确二进制值保留一位小数，恰好落在中间时取绝对值较大的一侧。
// strconv 的 'f' 格式遇到 0.25 这类精确中点会取偶数（0.2）。
func formatFixed1(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 1, 64)
	}
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, big.NewRat(10, 1))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	q, m := new(big.Int).QuoRem(n, big.NewInt(10), new(big.Int))
	return sign + q.String() + "." + m.String()
}

// SortDatasetsByScore 返回按得分降序排列的新切片，同分保持原顺序
func SortDatasetsByScore(datasets []model.Dataset) []model.Dataset {
	out := make([]model.Dataset, len(datasets))
	copy(out, datasets)
	sort.SliceStable(out, func(i, j int) bool {
		return DatasetScore(out[i]) > DatasetScore(out[j])
	})
	return out
}
