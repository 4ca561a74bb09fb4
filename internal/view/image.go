package view

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"AIToolbox/internal/service"
)

// AspectRatios lists the ratios offered by the image generator
var AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

const defaultAspectRatio = "1:1"

// ImageGenSnapshot is the visible state of the image generator
type ImageGenSnapshot struct {
	Status
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}

// ImageGenView generates images from a prompt
type ImageGenView struct {
	machine
	facade Facade
	tr     Translator

	prompt string
	images []string
}

func NewImageGenView(facade Facade, tr Translator) *ImageGenView {
	return &ImageGenView{facade: facade, tr: tr, images: []string{}}
}

// Submit requests count images. An empty aspectRatio means square; count is
// forwarded without clamping.
func (v *ImageGenView) Submit(ctx context.Context, prompt, aspectRatio string, count int) error {
	if blank(prompt) {
		return ErrBlankInput
	}
	if aspectRatio == "" {
		aspectRatio = defaultAspectRatio
	}
	if !slices.Contains(AspectRatios, aspectRatio) {
		return fmt.Errorf("unsupported aspect ratio %q", aspectRatio)
	}

	if err := v.begin(func() {
		v.prompt = prompt
		v.images = []string{}
	}); err != nil {
		return err
	}

	images, err := v.facade.GenerateImages(ctx, prompt, aspectRatio, count)
	if err != nil {
		v.fail(v.tr.T("imageGen.error", nil))
		return nil
	}
	v.succeed(func() {
		v.images = images
	})
	return nil
}

func (v *ImageGenView) Snapshot() ImageGenSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ImageGenSnapshot{
		Status: v.status(),
		Prompt: v.prompt,
		Images: append([]string{}, v.images...),
	}
}

// ImageEditSnapshot is the visible state of the image editor
type ImageEditSnapshot struct {
	Status
	Prompt      string `json:"prompt"`
	OriginalURI string `json:"originalImageUri,omitempty"`
	EditedURI   string `json:"editedImageUri,omitempty"`
	Caption     string `json:"caption,omitempty"`
}

// ImageEditView modifies an uploaded image according to a prompt
type ImageEditView struct {
	machine
	facade Facade
	tr     Translator

	prompt   string
	original string
	edited   string
	caption  string
}

func NewImageEditView(facade Facade, tr Translator) *ImageEditView {
	return &ImageEditView{facade: facade, tr: tr}
}

// Submit edits image. When the model answers without an image the view
// shows its text as the error and the edited image stays unset.
func (v *ImageEditView) Submit(ctx context.Context, prompt string, image []byte, mimeType string) error {
	if blank(prompt) || len(image) == 0 {
		return ErrBlankInput
	}
	if mimeType == "" {
		mimeType = strings.Split(http.DetectContentType(image), ";")[0]
	}

	if err := v.begin(func() {
		v.prompt = prompt
		v.edited = ""
		v.caption = ""
		v.original = service.DataURI(mimeType, image)
	}); err != nil {
		return err
	}

	res, err := v.facade.EditImage(ctx, prompt, image, mimeType)
	if err != nil {
		v.fail(v.tr.T("imageEdit.error.general", nil))
		return nil
	}
	if res.ImageURI == "" {
		text := strings.TrimSpace(res.Caption)
		if text == "" {
			text = "N/A"
		}
		v.fail(v.tr.T("imageEdit.error.noImage", map[string]any{"text": text}))
		return nil
	}

	v.succeed(func() {
		v.edited = res.ImageURI
		v.caption = res.Caption
	})
	return nil
}

func (v *ImageEditView) Snapshot() ImageEditSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ImageEditSnapshot{
		Status:      v.status(),
		Prompt:      v.prompt,
		OriginalURI: v.original,
		EditedURI:   v.edited,
		Caption:     v.caption,
	}
}
