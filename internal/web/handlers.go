package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"AIToolbox/internal/i18n"
	"AIToolbox/internal/service"
	"AIToolbox/internal/shell"
	"AIToolbox/internal/tool"
)

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type toolsResponse struct {
	Active tool.ID       `json:"active"`
	Tools  []shell.Entry `json:"tools"`
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	writeJSON(w, http.StatusOK, toolsResponse{Active: sh.Active(), Tools: sh.Tools()})
}

func (s *Server) handleSelectTool(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	id, err := tool.Parse(mux.Vars(r)["tool"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := sh.Select(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, toolsResponse{Active: sh.Active(), Tools: sh.Tools()})
}

type localeResponse struct {
	Language  i18n.Language            `json:"language"`
	Suggested i18n.Language            `json:"suggested"`
	Languages map[i18n.Language]string `json:"languages"`
}

func (s *Server) handleGetLocale(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, localeResponse{
		Language:  s.localizer.Language(),
		Suggested: i18n.Negotiate(r.Header.Get("Accept-Language")),
		Languages: i18n.Languages,
	})
}

func (s *Server) handleSetLocale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lang, ok := i18n.ParseLanguage(req.Language)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported language: %q", req.Language))
		return
	}
	if err := s.localizer.SetLanguage(lang); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.handleGetLocale(w, r)
}

// handleTranslate resolves one key; query parameters fill {{name}} tokens
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	subs := make(map[string]any)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			subs[name] = values[0]
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": s.localizer.T(mux.Vars(r)["key"], subs)})
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	writeJSON(w, http.StatusOK, sh.Chat.Snapshot())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.Chat.Submit(r.Context(), req.Text); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.Chat.Snapshot())
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	if err := sh.Chat.Clear(r.Context()); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.Chat.Snapshot())
}

func (s *Server) handleResumeChat(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req struct {
		SessionId string `json:"sessionId"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.SessionId) == "" {
		writeError(w, http.StatusBadRequest, errors.New("sessionId is required"))
		return
	}
	if err := sh.Chat.Resume(r.Context(), req.SessionId); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, sh.Chat.Snapshot())
}

func (s *Server) handleGenerateImages(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	req := struct {
		Prompt      string `json:"prompt"`
		AspectRatio string `json:"aspectRatio"`
		Count       int    `json:"count"`
	}{Count: 1}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.ImageGen.Submit(r.Context(), req.Prompt, req.AspectRatio, req.Count); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.ImageGen.Snapshot())
}

// handleEditImage takes a multipart form with an "image" file and a "prompt"
func (s *Server) handleEditImage(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("image is required: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read image: %w", err))
		return
	}
	mimeType := header.Header.Get(ContentTypeHeaderKey)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = ""
	}

	if err := sh.ImageEdit.Submit(r.Context(), r.FormValue("prompt"), data, mimeType); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.ImageEdit.Snapshot())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req promptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.WebSearch.Submit(r.Context(), req.Prompt); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.WebSearch.Snapshot())
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req promptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.RecipeGen.Submit(r.Context(), req.Prompt); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.RecipeGen.Snapshot())
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req promptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.CodeGen.Submit(r.Context(), req.Prompt); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.CodeGen.Snapshot())
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req promptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.StoryGen.Submit(r.Context(), req.Prompt); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.StoryGen.Snapshot())
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	var req struct {
		Text   string `json:"text"`
		Format string `json:"format"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := sh.Summarizer.Submit(r.Context(), req.Text, service.SummaryFormat(req.Format)); err != nil {
		writeError(w, viewErrorStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sh.Summarizer.Snapshot())
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	sh.Admin.Refresh()
	writeJSON(w, http.StatusOK, sh.Admin.Snapshot())
}

// handleClearStats needs ?confirm=true
func (s *Server) handleClearStats(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := sh.Admin.Clear(confirmed); err != nil {
		writeJSON(w, viewErrorStatus(err), map[string]string{
			"error":   err.Error(),
			"confirm": s.localizer.T("admin.confirmClear", nil),
		})
		return
	}
	s.logger.Info("usage statistics cleared")
	writeJSON(w, http.StatusOK, sh.Admin.Snapshot())
}
