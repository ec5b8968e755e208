package service

import (
	"fmt"
	"strings"
	"time"
)

// RenderPortfolioMarkdown 生成组合概览报告
func RenderPortfolioMarkdown(s Snapshot) string {
	var b strings.Builder
	b.WriteString("# Wrongness Portfolio\n\n")
	b.WriteString(fmt.Sprintf("- generated_at: %s\n", s.TakenAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("- artifacts: %d\n", s.Stats.TotalArtifacts))
	b.WriteString(fmt.Sprintf("- protocols: %d\n", s.Stats.TotalProtocols))
	b.WriteString(fmt.Sprintf("- total_time_saved: %d min\n", s.Stats.TotalTimeSaved))
	b.WriteString(fmt.Sprintf("- avg_success_rate: %.1f%%\n", s.Stats.AvgSuccessRate))
	b.WriteString(fmt.Sprintf("- datasets: %d in progress, %d completed\n\n",
		s.Stats.DatasetsActive, s.Stats.DatasetsCompleted))

	b.WriteString("## Protocols\n\n")
	if len(s.Protocols) == 0 {
		b.WriteString("- 无\n\n")
	} else {
		b.WriteString("| ID | Name | Applied | Success | CI95 | Avg saved |\n")
		b.WriteString("| --- | --- | ---: | ---: | --- | ---: |\n")
		for _, p := range TopProtocols(s.Protocols, -1) {
			low, high := SuccessInterval(p)
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %d%% | [%.0f, %.0f] | %d min |\n",
				p.ID, p.Name, p.TimesApplied, p.SuccessRate, low, high, p.AvgTimeSaved))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Datasets (by priority)\n\n")
	if len(s.Datasets) == 0 {
		b.WriteString("- 无\n\n")
	} else {
		b.WriteString("| ID | Name | Status | Score | ROI |\n")
		b.WriteString("| --- | --- | --- | ---: | ---: |\n")
		for _, d := range s.Datasets {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n",
				d.ID, d.Name, d.Status, DatasetScore(d), DatasetROI(d)))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Artifacts\n\n")
	max := len(s.Artifacts)
	if max > 50 {
		max = 50
	}
	for i := 0; i < max; i++ {
		a := s.Artifacts[i]
		b.WriteString(fmt.Sprintf("- %s %s [%s] protocols=%d applied=%d\n",
			a.ID, a.Title, a.Status, a.Protocols, a.TimesSaved))
	}
	if len(s.Artifacts) > max {
		b.WriteString(fmt.Sprintf("- ...(剩余 %d 条省略)\n", len(s.Artifacts)-max))
	}

	if len(s.MiningQueue) > 0 {
		b.WriteString("\n## Mining queue\n\n")
		for _, t := range s.MiningQueue {
			b.WriteString(fmt.Sprintf("- %s %s -> %s (%s, %s, %d%%)\n",
				t.ID, t.Source, t.Target, t.Priority, t.Status, t.Progress))
		}
	}
	return b.String()
}
