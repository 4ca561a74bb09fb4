package view

import (
	"context"
	"strings"
)

// StorySnapshot is the visible state of the story generator. While
// submitting, Story holds the text received so far.
type StorySnapshot struct {
	Status
	Prompt string `json:"prompt"`
	Story  string `json:"story"`
}

// StoryView writes a story and exposes it as it streams in
type StoryView struct {
	machine
	facade Facade
	tr     Translator

	prompt string
	story  strings.Builder
}

func NewStoryView(facade Facade, tr Translator) *StoryView {
	return &StoryView{facade: facade, tr: tr}
}

// Submit generates a story and waits for the whole text
func (v *StoryView) Submit(ctx context.Context, prompt string) error {
	return v.Stream(ctx, prompt, nil)
}

// Stream generates a story, passing each fragment to emit as it arrives.
// A backend failure discards the partial story. An emit error stops the
// stream and is returned; the partial story is kept.
func (v *StoryView) Stream(ctx context.Context, prompt string, emit func(fragment string) error) error {
	if blank(prompt) {
		return ErrBlankInput
	}
	if err := v.begin(func() {
		v.prompt = prompt
		v.story.Reset()
	}); err != nil {
		return err
	}

	for fragment, err := range v.facade.StreamStory(ctx, prompt) {
		if err != nil {
			v.mu.Lock()
			v.story.Reset()
			v.mu.Unlock()
			v.fail(v.tr.T("storyGen.error", nil))
			return nil
		}

		v.mu.Lock()
		v.story.WriteString(fragment)
		v.mu.Unlock()

		if emit == nil {
			continue
		}
		if err := emit(fragment); err != nil {
			v.fail(v.tr.T("storyGen.error", nil))
			return err
		}
	}

	v.succeed(nil)
	return nil
}

func (v *StoryView) Snapshot() StorySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return StorySnapshot{Status: v.status(), Prompt: v.prompt, Story: v.story.String()}
}
