package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"AIToolbox/internal/shell"
	"AIToolbox/internal/view"
)

const wsReadWaitTimeout = 15 * time.Second
const wsWriteWaitTimeout = 10 * time.Second

// WebSocketUpgrader keeps gorilla's default same-origin check
var WebSocketUpgrader = websocket.Upgrader{
	ReadBufferSize:   4 * 1024,
	WriteBufferSize:  32 * 1024,
	HandshakeTimeout: 1 * time.Second,
}

// storyMessage is sent for each fragment and once more to finish
type storyMessage struct {
	Fragment string `json:"fragment,omitempty"`
	Done     bool   `json:"done,omitempty"`
	Story    string `json:"story,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleStoryWs reads one {"prompt": ...} message and streams the story back
func (s *Server) handleStoryWs(w http.ResponseWriter, r *http.Request, sh *shell.Shell) {
	conn, err := WebSocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(wsReadWaitTimeout))
	var req promptRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Warn("failed to read story request", "error", err)
		return
	}

	send := func(msg storyMessage) error {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWaitTimeout))
		return conn.WriteJSON(msg)
	}
	finish := func(msg storyMessage) {
		if err := send(msg); err != nil {
			s.logger.Debug("failed to send story result", "error", err)
		}
	}

	err = sh.StoryGen.Stream(r.Context(), req.Prompt, func(fragment string) error {
		return send(storyMessage{Fragment: fragment})
	})
	if err != nil {
		if errors.Is(err, view.ErrBusy) || errors.Is(err, view.ErrBlankInput) {
			finish(storyMessage{Error: err.Error()})
		} else {
			s.logger.Warn("story stream aborted", "error", err)
		}
		return
	}

	snap := sh.StoryGen.Snapshot()
	if snap.State == view.StateError {
		finish(storyMessage{Error: snap.Error})
		return
	}
	finish(storyMessage{Done: true, Story: snap.Story})
	err = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWaitTimeout))
	if err != nil {
		s.logger.Debug("failed to close story socket", "error", err)
	}
}
