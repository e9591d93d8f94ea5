package aggregate

import (
	"github.com/zeitwerk-app/zeitwerk-be/internal/models"
)

// ApplyCompletedSections 把已收口的片段折算成每个任务的新增秒数
// 只统计 work 片段；taskId 对不上现有任务的静默跳过（任务可能已被删）
// 同一任务多个片段的秒数相加；遍历顺序不影响结果
func ApplyCompletedSections(sections []models.Section, tasks []models.Task) map[string]int64 {
	known := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		known[t.ID] = struct{}{}
	}

	deltas := map[string]int64{}
	for _, s := range sections {
		if s.Kind != models.SectionWork || s.TaskID == nil || s.End == nil {
			continue
		}
		if _, ok := known[*s.TaskID]; !ok {
			continue
		}
		// 毫秒差向下取整到秒，聚合时只取整一次，展示层不再取整
		deltas[*s.TaskID] += (*s.End - s.Start) / 1000
	}
	return deltas
}
