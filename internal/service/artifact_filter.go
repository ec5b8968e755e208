package service

import (
	"strings"

	"wrongness-portfolio/internal/model"
)

// StatusAll 不按状态过滤
const StatusAll = "all"

// FilterArtifacts 先按状态过滤，再在 title/domain/category/id 里做不区分大小写的子串匹配。
// status 为空或 "all" 时不过滤状态，term 为空时全部匹配。结果保持原顺序，不会是 nil。
func FilterArtifacts(artifacts []model.Artifact, term, status string) []model.Artifact {
	needle := strings.ToLower(term)
	out := make([]model.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if status != "" && status != StatusAll && string(a.Status) != status {
			continue
		}
		if !artifactMatches(a, needle) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func artifactMatches(a model.Artifact, needle string) bool {
	for _, field := range []string{a.Title, a.Domain, a.Category, a.ID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
