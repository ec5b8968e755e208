package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name   string
		ids    []string
		prefix string
		want   string
	}{
		{"空集合", nil, PrefixProtocol, "P-001"},
		{"取最大值而不是数量", []string{"P-001", "P-003"}, PrefixProtocol, "P-004"},
		{"忽略无法解析的 ID", []string{"P-abc", "junk", "P-", "DS-009", "P-002"}, PrefixProtocol, "P-003"},
		{"超过补零宽度", []string{"WP-999"}, PrefixArtifact, "WP-1000"},
		{"未补零的旧 ID", []string{"DS-7"}, PrefixDataset, "DS-008"},
		{"全部无效", []string{"x", "P-1-2"}, PrefixProtocol, "P-001"},
		{"带符号的后缀", []string{"P-+7", "P--3", "P- 5", "P-002"}, PrefixProtocol, "P-003"},
		{"溢出的后缀", []string{"P-9223372036854775807", "P-99999999999999999999", "P-010"}, PrefixProtocol, "P-011"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.ids, tt.prefix, idWidth))
		})
	}
}

func TestNextID_SuccessiveCallsNeverCollide(t *testing.T) {
	ids := []string{"MQ-004", "garbage"}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NextID(ids, PrefixMiningTask, idWidth)
		assert.False(t, seen[id], "重复 ID %s", id)
		seen[id] = true
		ids = append(ids, id)
	}
}
