package view

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"AIToolbox/internal/service"
)

// SearchSnapshot is the visible state of the web search tool
type SearchSnapshot struct {
	Status
	Prompt string                `json:"prompt"`
	Result *service.SearchResult `json:"result,omitempty"`
}

// SearchView answers questions with grounded web search
type SearchView struct {
	machine
	facade Facade
	tr     Translator

	prompt string
	result *service.SearchResult
}

func NewSearchView(facade Facade, tr Translator) *SearchView {
	return &SearchView{facade: facade, tr: tr}
}

func (v *SearchView) Submit(ctx context.Context, prompt string) error {
	if blank(prompt) {
		return ErrBlankInput
	}
	if err := v.begin(func() {
		v.prompt = prompt
		v.result = nil
	}); err != nil {
		return err
	}

	res, err := v.facade.GroundedSearch(ctx, prompt)
	if err != nil {
		v.fail(v.tr.T("webSearch.error", nil))
		return nil
	}
	v.succeed(func() {
		v.result = &res
	})
	return nil
}

func (v *SearchView) Snapshot() SearchSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := SearchSnapshot{Status: v.status(), Prompt: v.prompt}
	if v.result != nil {
		res := service.SearchResult{
			Answer:  v.result.Answer,
			Sources: append([]service.Source{}, v.result.Sources...),
		}
		snap.Result = &res
	}
	return snap
}

// RecipeSnapshot is the visible state of the recipe generator
type RecipeSnapshot struct {
	Status
	Prompt  string           `json:"prompt"`
	Recipes []service.Recipe `json:"recipes"`
}

// RecipeView generates recipes from ingredients or a description
type RecipeView struct {
	machine
	facade Facade
	tr     Translator

	prompt  string
	recipes []service.Recipe
}

func NewRecipeView(facade Facade, tr Translator) *RecipeView {
	return &RecipeView{facade: facade, tr: tr, recipes: []service.Recipe{}}
}

// Submit asks for recipes. A malformed response gets its own message and
// leaves the recipe list empty.
func (v *RecipeView) Submit(ctx context.Context, prompt string) error {
	if blank(prompt) {
		return ErrBlankInput
	}
	if err := v.begin(func() {
		v.prompt = prompt
		v.recipes = []service.Recipe{}
	}); err != nil {
		return err
	}

	recipes, err := v.facade.GenerateRecipes(ctx, prompt)
	if err != nil {
		var ferr *service.FormatError
		if errors.As(err, &ferr) {
			v.fail(v.tr.T("recipeGen.error.format", nil))
		} else {
			v.fail(v.tr.T("recipeGen.error", nil))
		}
		return nil
	}
	v.succeed(func() {
		v.recipes = recipes
	})
	return nil
}

func (v *RecipeView) Snapshot() RecipeSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return RecipeSnapshot{
		Status:  v.status(),
		Prompt:  v.prompt,
		Recipes: append([]service.Recipe{}, v.recipes...),
	}
}

var (
	openingFence = regexp.MustCompile("^```[a-zA-Z0-9_+-]*\\s*\\n")
	closingFence = regexp.MustCompile("\\n?```\\s*$")
)

// StripCodeFences removes a surrounding markdown code fence, if any
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CodeSnapshot is the visible state of the code generator
type CodeSnapshot struct {
	Status
	Prompt string `json:"prompt"`
	Code   string `json:"code"`
}

// CodeView generates code and shows it without fences
type CodeView struct {
	machine
	facade Facade
	tr     Translator

	prompt string
	code   string
}

func NewCodeView(facade Facade, tr Translator) *CodeView {
	return &CodeView{facade: facade, tr: tr}
}

func (v *CodeView) Submit(ctx context.Context, prompt string) error {
	if blank(prompt) {
		return ErrBlankInput
	}
	if err := v.begin(func() {
		v.prompt = prompt
		v.code = ""
	}); err != nil {
		return err
	}

	raw, err := v.facade.GenerateCode(ctx, prompt)
	if err != nil {
		v.fail(v.tr.T("codeGen.error", nil))
		return nil
	}
	v.succeed(func() {
		v.code = StripCodeFences(raw)
	})
	return nil
}

func (v *CodeView) Snapshot() CodeSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return CodeSnapshot{Status: v.status(), Prompt: v.prompt, Code: v.code}
}

// SummarySnapshot is the visible state of the summarizer
type SummarySnapshot struct {
	Status
	Format  service.SummaryFormat `json:"format"`
	Summary string                `json:"summary"`
}

// SummarizerView condenses pasted text
type SummarizerView struct {
	machine
	facade Facade
	tr     Translator

	format  service.SummaryFormat
	summary string
}

func NewSummarizerView(facade Facade, tr Translator) *SummarizerView {
	return &SummarizerView{facade: facade, tr: tr, format: service.FormatParagraph}
}

// Submit summarizes text; an empty format keeps the previous choice
func (v *SummarizerView) Submit(ctx context.Context, text string, format service.SummaryFormat) error {
	if blank(text) {
		return ErrBlankInput
	}
	if format != "" {
		if _, err := service.ParseSummaryFormat(string(format)); err != nil {
			return err
		}
	}

	if err := v.begin(func() {
		if format != "" {
			v.format = format
		}
		format = v.format
		v.summary = ""
	}); err != nil {
		return err
	}

	summary, err := v.facade.SummarizeText(ctx, text, format)
	if err != nil {
		v.fail(v.tr.T("summarizer.error", nil))
		return nil
	}
	v.succeed(func() {
		v.summary = summary
	})
	return nil
}

func (v *SummarizerView) Snapshot() SummarySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return SummarySnapshot{Status: v.status(), Format: v.format, Summary: v.summary}
}
