// Package shell owns the tool selection for one client and the registry of
// tool views it switches between.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	"AIToolbox/internal/tool"
	"AIToolbox/internal/view"
)

// UsageRecorder counts tool selections
type UsageRecorder interface {
	Record(id tool.ID)
}

// Stats is what the admin view and the shell need from the usage store
type Stats interface {
	UsageRecorder
	view.UsageStats
}

// View is anything the shell can show as a tool
type View interface {
	Status() view.Status
}

// Deps are the shared services every shell is built from
type Deps struct {
	Facade      view.Facade
	Translator  view.Translator
	Stats       Stats
	Transcripts view.Transcripts
	Logger      *slog.Logger
	Meter       metric.Meter
}

// Entry describes one tool in the sidebar
type Entry struct {
	ID     tool.ID `json:"id"`
	Label  string  `json:"label"`
	Icon   string  `json:"icon"`
	Active bool    `json:"active"`
}

// Shell tracks the active tool and owns one view per tool. Views are
// independent: switching tools never cancels a request in flight.
type Shell struct {
	mu     sync.RWMutex
	active tool.ID

	tr         view.Translator
	stats      Stats
	logger     *slog.Logger
	selections metric.Int64Counter

	Chat       *view.ChatView
	ImageGen   *view.ImageGenView
	ImageEdit  *view.ImageEditView
	WebSearch  *view.SearchView
	RecipeGen  *view.RecipeView
	CodeGen    *view.CodeView
	StoryGen   *view.StoryView
	Summarizer *view.SummarizerView
	Admin      *view.AdminView

	views map[tool.ID]View
}

// New builds a shell with every view. Chat starts active; only explicit
// selections count as usage.
func New(deps Deps) (*Shell, error) {
	if deps.Facade == nil || deps.Translator == nil || deps.Stats == nil || deps.Logger == nil {
		return nil, fmt.Errorf("shell: facade, translator, stats and logger are required")
	}
	meter := deps.Meter
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter("aitoolbox")
	}
	selections, err := meter.Int64Counter(
		"tool.selections",
		metric.WithDescription("Number of times each tool was selected"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create selection counter: %w", err)
	}

	s := &Shell{
		active:     tool.Chat,
		tr:         deps.Translator,
		stats:      deps.Stats,
		logger:     deps.Logger,
		selections: selections,
		Chat:       view.NewChatView(deps.Facade, deps.Translator, deps.Transcripts, deps.Logger),
		ImageGen:   view.NewImageGenView(deps.Facade, deps.Translator),
		ImageEdit:  view.NewImageEditView(deps.Facade, deps.Translator),
		WebSearch:  view.NewSearchView(deps.Facade, deps.Translator),
		RecipeGen:  view.NewRecipeView(deps.Facade, deps.Translator),
		CodeGen:    view.NewCodeView(deps.Facade, deps.Translator),
		StoryGen:   view.NewStoryView(deps.Facade, deps.Translator),
		Summarizer: view.NewSummarizerView(deps.Facade, deps.Translator),
		Admin:      view.NewAdminView(deps.Stats, deps.Translator),
	}
	s.views = map[tool.ID]View{
		tool.Chat:       s.Chat,
		tool.ImageGen:   s.ImageGen,
		tool.ImageEdit:  s.ImageEdit,
		tool.WebSearch:  s.WebSearch,
		tool.RecipeGen:  s.RecipeGen,
		tool.CodeGen:    s.CodeGen,
		tool.StoryGen:   s.StoryGen,
		tool.Summarizer: s.Summarizer,
		tool.Admin:      s.Admin,
	}
	return s, nil
}

// Select makes id the active tool and records the selection
func (s *Shell) Select(ctx context.Context, id tool.ID) error {
	if _, ok := s.views[id]; !ok {
		return fmt.Errorf("unknown tool: %q", id)
	}

	s.mu.Lock()
	s.active = id
	s.mu.Unlock()

	s.stats.Record(id)
	s.selections.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", id.String())))
	s.logger.Debug("tool selected", "tool", id)

	if id == tool.Admin {
		s.Admin.Refresh()
	}
	return nil
}

// Active returns the selected tool
func (s *Shell) Active() tool.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// View returns the view registered for id
func (s *Shell) View(id tool.ID) (View, bool) {
	v, ok := s.views[id]
	return v, ok
}

// Tools lists every tool in sidebar order with localized labels
func (s *Shell) Tools() []Entry {
	active := s.Active()
	entries := make([]Entry, 0, len(tool.All))
	for _, id := range tool.All {
		entries = append(entries, Entry{
			ID:     id,
			Label:  s.tr.T(id.TranslationKey(), nil),
			Icon:   id.Icon(),
			Active: id == active,
		})
	}
	return entries
}
