package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID 前缀
const (
	PrefixArtifact   = "WP"
	PrefixDataset    = "DS"
	PrefixProtocol   = "P"
	PrefixMiningTask = "MQ"

	idWidth = 3
)

// NextID 取已有 ID 的最大数字后缀 +1，补零到 width 位。
// 无法解析为 <prefix>-<整数> 的 ID 直接忽略。
// 每次分配都要线性扫描；只在单写者下无冲突。
func NextID(ids []string, prefix string, width int) string {
	max := 0
	for _, id := range ids {
		n, ok := parseIDNumber(id, prefix)
		if ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, max+1)
}

func parseIDNumber(id, prefix string) (int, bool) {
	head, tail, found := strings.Cut(strings.TrimSpace(id), "-")
	if !found || head != prefix || tail == "" {
		return 0, false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	// 再 +1 会溢出的后缀视为无效
	v, err := strconv.Atoi(tail)
	if err != nil || v >= math.MaxInt {
		return 0, false
	}
	return v, true
}

type identified interface {
	GetID() string
}

func collectIDs[T identified](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.GetID())
	}
	return out
}
