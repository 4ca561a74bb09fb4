package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"AIToolbox/internal/backend"
)

const imageMIMEType = "image/jpeg"

// EditResult holds whatever the edit model returned. Either field may be empty.
type EditResult struct {
	ImageURI string `json:"imageUri,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// DataURI encodes bytes as a data: URI
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// GenerateImages creates count images for prompt. count is passed to the
// backend as-is; the backend decides what to do with values outside 1-4.
func (s *Service) GenerateImages(ctx context.Context, prompt, aspectRatio string, count int) ([]string, error) {
	var uris []string
	err := s.observe(ctx, "image_generation", func(ctx context.Context) error {
		images, err := s.backend.GenerateImages(ctx, backend.ImageRequest{
			Model:       s.models.Image,
			Prompt:      prompt,
			AspectRatio: aspectRatio,
			Count:       count,
			MIMEType:    imageMIMEType,
		})
		if err != nil {
			return &RemoteError{Op: "image_generation", Err: err}
		}
		uris = make([]string, 0, len(images))
		for _, img := range images {
			uris = append(uris, DataURI(img.MIMEType, img.Data))
		}
		return nil
	})
	return uris, err
}

// EditImage asks the model to modify image according to prompt. The model may
// answer with an image, text, or both.
func (s *Service) EditImage(ctx context.Context, prompt string, image []byte, mimeType string) (EditResult, error) {
	if mimeType == "" {
		mimeType = strings.Split(http.DetectContentType(image), ";")[0]
	}

	resp, err := s.generate(ctx, "image_edit", backend.Request{
		Model: s.models.ImageEdit,
		Parts: []backend.Part{
			{Data: image, MIMEType: mimeType},
			{Text: prompt},
		},
		Modalities: []string{string(genai.ModalityImage), string(genai.ModalityText)},
	})
	if err != nil {
		return EditResult{}, err
	}

	var result EditResult
	var captions []string
	for _, p := range resp.Parts {
		switch {
		case len(p.Data) > 0:
			if result.ImageURI == "" {
				result.ImageURI = DataURI(p.MIMEType, p.Data)
			}
		case p.Text != "":
			captions = append(captions, p.Text)
		}
	}
	result.Caption = strings.TrimSpace(strings.Join(captions, ""))
	return result, nil
}
