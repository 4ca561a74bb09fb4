package view

import (
	"sort"

	"AIToolbox/internal/tool"
)

// UsageStats reads and clears the per-tool counters
type UsageStats interface {
	ReadAll() map[tool.ID]int
	ClearAll()
}

// ToolUsage is one row of the admin table
type ToolUsage struct {
	Tool  tool.ID `json:"tool"`
	Label string  `json:"label"`
	Count int     `json:"count"`
}

// AdminSnapshot is the visible state of the admin panel
type AdminSnapshot struct {
	Status
	Usage   []ToolUsage `json:"usage"`
	Total   int         `json:"total"`
	Message string      `json:"message,omitempty"`
}

// AdminView shows usage statistics and clears them on confirmation
type AdminView struct {
	machine
	stats UsageStats
	tr    Translator

	usage []ToolUsage
	total int
}

func NewAdminView(stats UsageStats, tr Translator) *AdminView {
	return &AdminView{stats: stats, tr: tr, usage: []ToolUsage{}}
}

// Refresh reloads the counters, most used first
func (v *AdminView) Refresh() {
	counts := v.stats.ReadAll()

	usage := make([]ToolUsage, 0, len(counts))
	total := 0
	for id, n := range counts {
		usage = append(usage, ToolUsage{Tool: id, Label: v.tr.T(id.TranslationKey(), nil), Count: n})
		total += n
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Tool < usage[j].Tool
	})

	v.succeed(func() {
		v.usage = usage
		v.total = total
	})
}

// Clear wipes every counter. Without confirmation nothing changes.
func (v *AdminView) Clear(confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	v.stats.ClearAll()
	v.Refresh()
	return nil
}

func (v *AdminView) Snapshot() AdminSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := AdminSnapshot{
		Status: v.status(),
		Usage:  append([]ToolUsage{}, v.usage...),
		Total:  v.total,
	}
	if len(v.usage) == 0 {
		snap.Message = v.tr.T("admin.noData", nil)
	}
	return snap
}
