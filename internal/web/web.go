// Package web exposes the tool shell over HTTP and a story WebSocket. Each
// browser gets its own shell, keyed by a client cookie.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"AIToolbox/internal/i18n"
	"AIToolbox/internal/shell"
	"AIToolbox/internal/view"
)

type WebFnType = func(http.ResponseWriter, *http.Request)

// Header constants
const (
	CacheControlHeaderKey     = "Cache-Control"
	CacheControlHeaderNoCache = "no-cache"

	ContentTypeHeaderKey = "Content-Type"
	ContentTypeJson      = "application/json"
)

const ClientCookieName = "aitoolbox_client"

const HttpReadHeaderTimeout = 5 * time.Second
const HttpMaxHeaderBytes = 60000
const MaxJSONBodyBytes = 1 << 20
const MaxUploadBytes = 20 << 20

// Client shells idle longer than ClientIdleTimeout are dropped, and at most
// MaxClients are kept; the least recently seen goes first.
const ClientIdleTimeout = 2 * time.Hour
const MaxClients = 64

type WebFnOpts struct {
	AllowCaching bool
}

// ShellFactory builds a fresh shell for a new client
type ShellFactory func() (*shell.Shell, error)

// Server routes API calls to per-client shells
type Server struct {
	newShell  ShellFactory
	localizer *i18n.Localizer
	logger    *slog.Logger

	mu         sync.Mutex
	clients    map[string]*clientEntry
	maxClients int
	idleTTL    time.Duration
}

type clientEntry struct {
	shell    *shell.Shell
	lastSeen time.Time
}

func NewServer(newShell ShellFactory, localizer *i18n.Localizer, logger *slog.Logger) *Server {
	return &Server{
		newShell:  newShell,
		localizer: localizer,
		logger:    logger,
		clients:    make(map[string]*clientEntry),
		maxClients: MaxClients,
		idleTTL:    ClientIdleTimeout,
	}
}

// HTTPServer returns a server for addr. There is no write timeout: AI calls
// and story streams run as long as the backend takes.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: HttpReadHeaderTimeout,
		MaxHeaderBytes:    HttpMaxHeaderBytes,
	}
}

func (s *Server) Router() *mux.Router {
	gr := mux.NewRouter()
	api := gr.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tools", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleTools))).Methods(http.MethodGet)
	api.HandleFunc("/tools/{tool}/select", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleSelectTool))).Methods(http.MethodPost)
	api.HandleFunc("/locale", s.WebFnWrap(WebFnOpts{}, s.handleGetLocale)).Methods(http.MethodGet)
	api.HandleFunc("/locale", s.WebFnWrap(WebFnOpts{}, s.handleSetLocale)).Methods(http.MethodPut)
	api.HandleFunc("/i18n/{key}", s.WebFnWrap(WebFnOpts{AllowCaching: true}, s.handleTranslate)).Methods(http.MethodGet)

	api.HandleFunc("/chat", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleGetChat))).Methods(http.MethodGet)
	api.HandleFunc("/chat", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleChat))).Methods(http.MethodPost)
	api.HandleFunc("/chat/clear", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleClearChat))).Methods(http.MethodPost)
	api.HandleFunc("/chat/resume", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleResumeChat))).Methods(http.MethodPost)
	api.HandleFunc("/images", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleGenerateImages))).Methods(http.MethodPost)
	api.HandleFunc("/images/edit", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleEditImage))).Methods(http.MethodPost)
	api.HandleFunc("/search", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleSearch))).Methods(http.MethodPost)
	api.HandleFunc("/recipes", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleRecipes))).Methods(http.MethodPost)
	api.HandleFunc("/code", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleCode))).Methods(http.MethodPost)
	api.HandleFunc("/story", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleStory))).Methods(http.MethodPost)
	api.HandleFunc("/summarize", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleSummarize))).Methods(http.MethodPost)
	api.HandleFunc("/admin/stats", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleGetStats))).Methods(http.MethodGet)
	api.HandleFunc("/admin/stats", s.WebFnWrap(WebFnOpts{}, s.withShell(s.handleClearStats))).Methods(http.MethodDelete)

	api.HandleFunc("/ws/story", s.withShell(s.handleStoryWs))
	return gr
}

// WebFnWrap recovers handler panics and reports them as JSON errors
func (s *Server) WebFnWrap(opts WebFnOpts, fn WebFnType) WebFnType {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recErr := recover()
			if recErr == nil {
				return
			}
			s.logger.Error("panic in handler", "path", r.URL.Path, "panic", recErr, "stack", string(debug.Stack()))
			writeError(w, http.StatusInternalServerError, fmt.Errorf("panic: %v", recErr))
		}()
		if !opts.AllowCaching {
			w.Header().Set(CacheControlHeaderKey, CacheControlHeaderNoCache)
		}
		fn(w, r)
	}
}

type shellFnType = func(http.ResponseWriter, *http.Request, *shell.Shell)

// withShell finds the caller's shell, creating one and setting the client
// cookie on first contact
func (s *Server) withShell(fn shellFnType) WebFnType {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := s.clientShell(w, r)
		if err != nil {
			s.logger.Error("failed to create shell", "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		fn(w, r, sh)
	}
}

func (s *Server) clientShell(w http.ResponseWriter, r *http.Request) (*shell.Shell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if c, err := r.Cookie(ClientCookieName); err == nil {
		if entry, ok := s.clients[c.Value]; ok {
			entry.lastSeen = now
			return entry.shell, nil
		}
	}

	sh, err := s.newShell()
	if err != nil {
		return nil, err
	}
	s.evictClients(now)
	clientId := uuid.NewString()
	s.clients[clientId] = &clientEntry{shell: sh, lastSeen: now}
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    clientId,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	s.logger.Info("new client", "client_id", clientId)
	return sh, nil
}

// evictClients drops idle shells and makes room for one more. s.mu must be held.
func (s *Server) evictClients(now time.Time) {
	for id, entry := range s.clients {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.clients, id)
			s.logger.Debug("evicted idle client", "client_id", id)
		}
	}
	for len(s.clients) >= s.maxClients {
		var oldestId string
		var oldest time.Time
		for id, entry := range s.clients {
			if oldestId == "" || entry.lastSeen.Before(oldest) {
				oldestId, oldest = id, entry.lastSeen
			}
		}
		delete(s.clients, oldestId)
		s.logger.Debug("evicted least recent client", "client_id", oldestId)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentTypeHeaderKey, ContentTypeJson)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// viewErrorStatus maps a refused submission to an HTTP status. Remote
// failures never get here: views report them in their snapshot.
func viewErrorStatus(err error) int {
	switch {
	case errors.Is(err, view.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, view.ErrNotConfirmed):
		return http.StatusPreconditionRequired
	default:
		return http.StatusBadRequest
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
